package audio

import "testing"

func TestFilterStepResponseNoOvershoot(t *testing.T) {
	f := NewFilter(48000)
	f.SetCutoff(3000)
	f.SetResonance(0.1)
	f.Reset()

	for i := 0; i < 48000; i++ {
		v := f.Sample(1)
		if v > satKnee || v < -satKnee {
			t.Fatalf("step response exceeds saturation bound at sample %d: %v", i, v)
		}
	}
}

func TestFilterStatesBoundedAtMaxResonance(t *testing.T) {
	f := NewFilter(48000)
	f.SetCutoff(1000)
	f.SetResonance(20)
	f.Reset()

	osc := NewOscillator(48000)
	osc.SetWaveform(Saw)
	osc.SetFrequency(1000)

	const bound = satKnee + 1e-4
	for i := 0; i < 96000; i++ {
		f.Sample(osc.Sample() * 10)
		if f.lpState > bound || f.lpState < -bound {
			t.Fatalf("lpState out of bounds at sample %d: %v", i, f.lpState)
		}
		if f.bpState > bound || f.bpState < -bound {
			t.Fatalf("bpState out of bounds at sample %d: %v", i, f.bpState)
		}
	}
}

func TestFilterCutoffClamp(t *testing.T) {
	f := NewFilter(48000)
	tests := []struct {
		set  float32
		want float32
	}{
		{1000, 1000},
		{5, 20},
		{50000, 20000},
	}
	for _, test := range tests {
		f.SetCutoff(test.set)
		if got := f.Cutoff(); got != test.want {
			t.Errorf("SetCutoff(%v): want %v, got %v", test.set, test.want, got)
		}
	}
}

func TestDCBlocker(t *testing.T) {
	dc := NewDCBlocker()
	var out float32
	for i := 0; i < 48000; i++ {
		out = dc.Sample(1)
	}
	if out > 0.01 || out < -0.01 {
		t.Errorf("constant input should decay to zero, got %v", out)
	}
}
