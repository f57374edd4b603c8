package audio

import "math"

// Oscillator generates one of four periodic waveforms. Square and saw use
// a PolyBLEP correction near their discontinuities; without it, harmonics
// above Nyquist fold back into the audible band at typical siren pitches.
// Sine and triangle are continuous and generated directly.
type Oscillator struct {
	sampleRate float32
	frequency  float32
	phase      float32 // 0 to 1
	waveform   Waveform
}

func NewOscillator(sampleRate int) *Oscillator {
	return &Oscillator{
		sampleRate: float32(sampleRate),
		frequency:  440,
	}
}

func (o *Oscillator) SetFrequency(hz float32) {
	o.frequency = clamp(hz, MinFrequency, MaxFrequency)
}

func (o *Oscillator) Frequency() float32 { return o.frequency }

func (o *Oscillator) SetWaveform(w Waveform) {
	o.waveform = Waveform(int(w) % numWaveforms)
}

func (o *Oscillator) Waveform() Waveform { return o.waveform }

// ResetPhase restarts the waveform at its zero crossing, so a retrigger
// never starts mid-cycle with a click.
func (o *Oscillator) ResetPhase() { o.phase = 0 }

func (o *Oscillator) Generate(out []float32) {
	for i := range out {
		out[i] = o.Sample()
	}
}

func (o *Oscillator) Sample() float32 {
	dt := o.frequency / o.sampleRate
	var s float32

	switch o.waveform {
	case Sine:
		s = float32(math.Sin(twoPi * float64(o.phase)))
	case Square:
		if o.phase < 0.5 {
			s = 1
		} else {
			s = -1
		}
		// Correct both edges: rising at phase 0, falling at phase 0.5.
		s += polyBlep(o.phase, dt)
		shifted := o.phase + 0.5
		if shifted >= 1 {
			shifted -= 1
		}
		s -= polyBlep(shifted, dt)
	case Saw:
		s = 2*o.phase - 1
		s -= polyBlep(o.phase, dt)
	case Triangle:
		if o.phase < 0.5 {
			s = 4*o.phase - 1
		} else {
			s = 3 - 4*o.phase
		}
	}

	o.phase += dt
	if o.phase >= 1 {
		o.phase -= 1
	}
	return s
}

// polyBlep returns the polynomial band-limited step residual when the
// phase t is within one sample increment dt of a discontinuity at 0/1.
func polyBlep(t, dt float32) float32 {
	switch {
	case t < dt:
		t /= dt
		return t + t - t*t - 1
	case t > 1-dt:
		t = (t - 1) / dt
		return t*t + t + t + 1
	}
	return 0
}
