package audio

import "testing"

func TestOscillatorAmplitudeBound(t *testing.T) {
	for w := 0; w < numWaveforms; w++ {
		osc := NewOscillator(48000)
		osc.SetWaveform(Waveform(w))
		for _, freq := range []float32{20, 110, 440, 2500, 8000, 20000} {
			osc.SetFrequency(freq)
			for i := 0; i < 48000; i++ {
				v := osc.Sample()
				if v < -1.05 || v > 1.05 {
					t.Fatalf("%v at %vHz: sample out of bounds: %v", Waveform(w), freq, v)
				}
			}
		}
	}
}

func TestOscillatorFrequencyClamp(t *testing.T) {
	osc := NewOscillator(48000)
	tests := []struct {
		set  float32
		want float32
	}{
		{440, 440},
		{5, 20},
		{0, 20},
		{-100, 20},
		{20000, 20000},
		{99999, 20000},
	}
	for _, test := range tests {
		osc.SetFrequency(test.set)
		if got := osc.Frequency(); got != test.want {
			t.Errorf("SetFrequency(%v): want %v, got %v", test.set, test.want, got)
		}
	}
}

func TestOscillatorResetPhase(t *testing.T) {
	osc := NewOscillator(48000)
	osc.SetWaveform(Sine)
	osc.SetFrequency(440)

	first := osc.Sample()
	for i := 0; i < 1000; i++ {
		osc.Sample()
	}
	osc.ResetPhase()
	if got := osc.Sample(); got != first {
		t.Errorf("after phase reset: want %v, got %v", first, got)
	}
}
