package audio

import (
	"fmt"
	"sync/atomic"
)

// Props stores engine parameters that can be updated without locks. All
// properties should be registered before any reads take place.
type Props struct {
	properties map[string]*atomic.Value
	setters    map[string]setter
}

func NewProps() *Props {
	return &Props{
		properties: make(map[string]*atomic.Value),
		setters:    make(map[string]setter),
	}
}

// Set updates the property with value. The key has to be registered first
// using Register. Out-of-range values are clamped, not rejected.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	set := p.setters[key]
	if err := set(value, prop); err != nil {
		return fmt.Errorf("set property %s: %w", key, err)
	}
	return nil
}

func (p *Props) Get(key string) (interface{}, error) {
	prop, ok := p.properties[key]
	if !ok {
		return nil, fmt.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Keys returns the registered property names, in map order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	return keys
}

// Register adds a new property.
func (p *Props) Register(key string, set setter, init interface{}) (*atomic.Value, error) {
	var prop atomic.Value
	p.properties[key] = &prop
	p.setters[key] = set
	return &prop, set(init, &prop)
}

func (p *Props) MustRegister(key string, set setter, init interface{}) *atomic.Value {
	if prop, err := p.Register(key, set, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

type setter func(val interface{}, dest *atomic.Value) error

// setFloat returns a setter that stores a float32 clamped to [min, max].
// Clamping instead of erroring keeps a knob sweep from a controller usable
// at its extremes.
func setFloat(min, max float32) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var f float32
		switch n := v.(type) {
		case float32:
			f = n
		case float64:
			f = float32(n)
		case int:
			f = float32(n)
		default:
			return fmt.Errorf("value is not a number: %v", v)
		}
		dest.Store(clamp(f, min, max))
		return nil
	}
}

// setIntMod returns a setter that stores an int wrapped into [0, n).
func setIntMod(n int) setter {
	return func(v interface{}, dest *atomic.Value) error {
		var i int
		switch m := v.(type) {
		case int:
			i = m
		case float64:
			i = int(m)
		default:
			return fmt.Errorf("value is not an int: %v", v)
		}
		i %= n
		if i < 0 {
			i += n
		}
		dest.Store(i)
		return nil
	}
}
