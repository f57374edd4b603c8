package audio

import "math"

const (
	DefaultSampleRate = 48000
	DefaultBufferSize = 256
	DefaultChannels   = 2

	// MinFrequency and MaxFrequency bound every audible-rate frequency
	// parameter (oscillator pitch, filter cutoff).
	MinFrequency = 20.0
	MaxFrequency = 20000.0

	// maxSafeAmplitude bounds every value stored into a feedback path
	// (filter integrators, delay and reverb lines) so that runaway
	// feedback can never become non-finite.
	maxSafeAmplitude = 10.0

	// envSilence is the envelope level below which output is forced to
	// true zero instead of an inaudible decay tail.
	envSilence = 0.001
)

const twoPi = 2 * math.Pi

// Waveform selects the shape produced by Oscillator and LFO.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Saw
	Triangle

	numWaveforms = 4
)

func (w Waveform) String() string {
	switch w {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Saw:
		return "saw"
	case Triangle:
		return "triangle"
	}
	return "unknown"
}

// ParseWaveform maps a name to a waveform. The bool reports whether the
// name was recognized.
func ParseWaveform(s string) (Waveform, bool) {
	switch s {
	case "sine":
		return Sine, true
	case "square":
		return Square, true
	case "saw":
		return Saw, true
	case "triangle":
		return Triangle, true
	}
	return Sine, false
}

// PitchEnvMode selects the pitch sweep applied while the envelope is
// releasing: a two-octave rise, a two-octave fall, or none.
type PitchEnvMode int

const (
	PitchEnvNone PitchEnvMode = iota
	PitchEnvUp
	PitchEnvDown

	numPitchEnvModes = 3
)

func (m PitchEnvMode) String() string {
	switch m {
	case PitchEnvUp:
		return "up"
	case PitchEnvDown:
		return "down"
	}
	return "none"
}

// Mode selects between the synthesis chain and the file player.
type Mode int

const (
	ModeSynthesis Mode = iota
	ModeFilePlayback
)

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampSample(v float32) float32 {
	return clamp(v, -maxSafeAmplitude, maxSafeAmplitude)
}

// fastTanh is a rational approximation of tanh, accurate within the ±3
// input range it clamps to.
func fastTanh(x float32) float32 {
	x = clamp(x, -3, 3)
	x2 := x * x
	return x * (27 + x2) / (27 + 9*x2)
}

// smoothedValue approaches a target with a one-pole filter, hiding
// parameter steps that would otherwise be heard as zipper noise.
type smoothedValue struct {
	target  float32
	current float32
	coeff   float32
}

func newSmoothedValue(initial, coeff float32) smoothedValue {
	return smoothedValue{target: initial, current: initial, coeff: coeff}
}

func (s *smoothedValue) setTarget(v float32) {
	s.target = v
}

// setImmediate jumps both target and current to v, skipping the smoothing.
func (s *smoothedValue) setImmediate(v float32) {
	s.target = v
	s.current = v
}

func (s *smoothedValue) next() float32 {
	s.current += (s.target - s.current) * s.coeff
	return s.current
}
