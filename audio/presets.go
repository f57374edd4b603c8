package audio

import (
	"fmt"
	"sort"
)

type Device interface {
	Set(key string, val interface{}) error
	Get(key string) (interface{}, error)
}

type preset map[string]interface{}

var presets = map[string]preset{
	// Classic siren: square wave, slow wail, long echo tail.
	"wail": preset{
		"osc.wave":       int(Square),
		"osc.freq":       660.0,
		"lfo.rate":       1.2,
		"lfo.pitch":      0.6,
		"env.attack":     0.01,
		"env.release":    1.5,
		"delay.time":     0.45,
		"delay.feedback": 0.55,
		"delay.mix":      0.4,
		"reverb.mix":     0.2,
	},
	// Short percussive zap with a falling pitch sweep.
	"zap": preset{
		"osc.wave":       int(Saw),
		"osc.freq":       880.0,
		"pitchenv.mode":  int(PitchEnvDown),
		"env.attack":     0.001,
		"env.release":    0.3,
		"delay.time":     0.25,
		"delay.feedback": 0.4,
		"delay.mix":      0.35,
	},
	// Rising alarm, two octaves up over the release.
	"riser": preset{
		"osc.wave":      int(Square),
		"osc.freq":      330.0,
		"pitchenv.mode": int(PitchEnvUp),
		"env.attack":    0.05,
		"env.release":   2.0,
		"reverb.mix":    0.3,
		"reverb.size":   0.8,
	},
	// Deep dub space: heavy feedback, dark filter, big spring.
	"dub": preset{
		"osc.wave":         int(Sine),
		"osc.freq":         220.0,
		"lfo.rate":         4.0,
		"lfo.pitch":        0.15,
		"filter.cutoff":    1800.0,
		"filter.res":       3.0,
		"env.release":      1.0,
		"delay.time":       0.6,
		"delay.feedback":   0.7,
		"delay.mix":        0.5,
		"delay.saturation": 0.6,
		"reverb.mix":       0.4,
		"reverb.damping":   0.5,
	},
}

func LoadPreset(name string, d Device) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for k, v := range p {
		if err := d.Set(k, v); err != nil {
			return err
		}
	}
	return nil
}

// PresetNames lists the available presets in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
