package audio

import "testing"

func TestReverbImpulseDecays(t *testing.T) {
	const sampleRate = 48000

	r := NewReverb(sampleRate)
	r.SetMix(1)

	in := make([]float32, sampleRate)
	out := make([]float32, sampleRate)
	in[0] = 1

	// 5 seconds of tail after the impulse.
	var windows []float32
	for block := 0; block < 5; block++ {
		r.Process(in, out)
		var peak float32
		for i, v := range out {
			if v != v {
				t.Fatalf("NaN in output at block %d sample %d", block, i)
			}
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		windows = append(windows, peak)
		in[0] = 0
	}

	if last := windows[len(windows)-1]; last > windows[1] {
		t.Errorf("tail not decaying: first window %v, last window %v", windows[1], last)
	}
	if last := windows[len(windows)-1]; last > 0.05 {
		t.Errorf("tail still audible after 5s: %v", last)
	}
}

func TestReverbDryBypass(t *testing.T) {
	r := NewReverb(48000)
	r.SetMix(0)

	in := []float32{0.5, -0.25, 0.1, 0}
	out := make([]float32, len(in))
	r.Process(in, out)
	for i := range in {
		if out[i] != in[i] {
			t.Errorf("sample %d: want %v, got %v", i, in[i], out[i])
		}
	}
}

func TestReverbParameterClamp(t *testing.T) {
	r := NewReverb(48000)
	r.SetSize(2)
	if got := r.Size(); got != 1 {
		t.Errorf("size: want 1, got %v", got)
	}
	r.SetDamping(-1)
	if got := r.Damping(); got != 0 {
		t.Errorf("damping: want 0, got %v", got)
	}
	r.SetMix(0.3)
	if got := r.Mix(); got != 0.3 {
		t.Errorf("mix: want 0.3, got %v", got)
	}
}
