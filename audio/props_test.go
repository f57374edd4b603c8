package audio

import "testing"

func TestPropsClamping(t *testing.T) {
	p := NewProps()
	p.MustRegister("gain", setFloat(0, 1), float32(0.5))

	tests := []struct {
		set  interface{}
		want float32
	}{
		{float32(0.7), 0.7},
		{0.25, 0.25},
		{2.0, 1},
		{-1.0, 0},
		{1, 1},
	}
	for _, test := range tests {
		if err := p.Set("gain", test.set); err != nil {
			t.Fatalf("Set(%v): %v", test.set, err)
		}
		v, err := p.Get("gain")
		if err != nil {
			t.Fatal(err)
		}
		if got := v.(float32); got != test.want {
			t.Errorf("Set(%v): want %v, got %v", test.set, test.want, got)
		}
	}
}

func TestPropsIntWrap(t *testing.T) {
	p := NewProps()
	p.MustRegister("wave", setIntMod(4), 0)

	tests := []struct {
		set  int
		want int
	}{
		{0, 0},
		{3, 3},
		{4, 0},
		{5, 1},
		{-1, 3},
	}
	for _, test := range tests {
		if err := p.Set("wave", test.set); err != nil {
			t.Fatal(err)
		}
		v, _ := p.Get("wave")
		if got := v.(int); got != test.want {
			t.Errorf("Set(%v): want %v, got %v", test.set, test.want, got)
		}
	}
}

func TestPropsUnknownKey(t *testing.T) {
	p := NewProps()
	if err := p.Set("nope", 1.0); err == nil {
		t.Error("expected error setting unknown property")
	}
	if _, err := p.Get("nope"); err == nil {
		t.Error("expected error getting unknown property")
	}
}

func TestPropsWrongType(t *testing.T) {
	p := NewProps()
	p.MustRegister("gain", setFloat(0, 1), float32(0.5))
	if err := p.Set("gain", "loud"); err == nil {
		t.Error("expected error setting string on a float property")
	}
}
