package audio

import "testing"

func TestDelayImpulseResponse(t *testing.T) {
	const sampleRate = 48000
	const delayTime = 0.5

	d := NewDelay(sampleRate, 2)
	d.SetDelayTime(delayTime)
	d.SetRepitchRate(0) // jump straight to the target length
	d.SetMix(1)
	d.SetFeedback(0)
	d.SetModDepth(0)

	total := int(delayTime*sampleRate) + 1000
	in := make([]float32, total)
	out := make([]float32, total)
	in[0] = 1
	d.Process(in, out)

	peakIdx, peak := 0, float32(0)
	for i, v := range out {
		if v > peak {
			peak, peakIdx = v, i
		}
	}

	// The flutter modulator spreads the read position by up to
	// flutterDepth*sampleRate samples around the nominal offset.
	want := int(delayTime * sampleRate)
	spread := int(d.flutterDepth*sampleRate) + 2
	if peakIdx < want-spread || peakIdx > want+spread {
		t.Errorf("impulse peak at %d, want %d±%d", peakIdx, want, spread)
	}
	if peak < 0.5 {
		t.Errorf("impulse peak too small: %v", peak)
	}
}

func TestDelayParameterClamp(t *testing.T) {
	d := NewDelay(48000, 2)
	tests := []struct {
		set  func(float32)
		get  func() float32
		in   float32
		want float32
	}{
		{d.SetDelayTime, d.DelayTime, 5, 2},
		{d.SetDelayTime, d.DelayTime, 0, 0.001},
		{d.SetFeedback, d.Feedback, 2, 0.95},
		{d.SetFeedback, d.Feedback, -1, 0},
		{d.SetMix, d.Mix, 1.5, 1},
	}
	for _, test := range tests {
		test.set(test.in)
		if got := test.get(); got != test.want {
			t.Errorf("set %v: want %v, got %v", test.in, test.want, got)
		}
	}
}

func TestDelayFeedbackStaysBounded(t *testing.T) {
	d := NewDelay(48000, 2)
	d.SetDelayTime(0.05)
	d.SetFeedback(0.95)
	d.SetMix(1)
	d.SetSaturation(1)

	in := make([]float32, 48000)
	out := make([]float32, 48000)
	for i := range in {
		in[i] = 10
	}
	d.Process(in, out)
	for i, v := range out {
		if v > maxSafeAmplitude || v < -maxSafeAmplitude || v != v {
			t.Fatalf("unbounded output at sample %d: %v", i, v)
		}
	}
}
