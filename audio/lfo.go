package audio

import "math"

// LFO generates a low-frequency modulation signal, scaled by depth. The
// waveforms are the naive shapes: at sub-20Hz rates aliasing is far below
// anything audible, so no band-limiting correction is applied.
type LFO struct {
	sampleRate float32
	frequency  float32
	phase      float32
	waveform   Waveform
	depth      float32
}

func NewLFO(sampleRate int) *LFO {
	return &LFO{
		sampleRate: float32(sampleRate),
		frequency:  5,
		depth:      1,
	}
}

func (l *LFO) SetFrequency(hz float32) {
	l.frequency = clamp(hz, 0.1, 20)
}

func (l *LFO) Frequency() float32 { return l.frequency }

func (l *LFO) SetWaveform(w Waveform) {
	l.waveform = Waveform(int(w) % numWaveforms)
}

func (l *LFO) Waveform() Waveform { return l.waveform }

func (l *LFO) SetDepth(d float32) {
	l.depth = clamp(d, 0, 1)
}

func (l *LFO) Depth() float32 { return l.depth }

func (l *LFO) Generate(out []float32) {
	for i := range out {
		out[i] = l.Sample()
	}
}

func (l *LFO) Sample() float32 {
	var v float32
	switch l.waveform {
	case Sine:
		v = float32(math.Sin(twoPi * float64(l.phase)))
	case Square:
		if l.phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	case Saw:
		v = 2*l.phase - 1
	case Triangle:
		if l.phase < 0.5 {
			v = 4*l.phase - 1
		} else {
			v = 3 - 4*l.phase
		}
	}

	l.phase += l.frequency / l.sampleRate
	if l.phase >= 1 {
		l.phase -= 1
	}
	return v * l.depth
}
