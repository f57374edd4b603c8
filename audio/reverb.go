package audio

import "math"

// Reverb models a three-spring tank. Each spring line is a delay loop
// whose feedback is colored three ways: band-pass "tap" filters at rising
// center frequencies stand in for dispersive propagation (high
// frequencies travel effectively faster through a coiled spring), a small
// bank of high-Q band-pass filters at non-harmonic frequencies produces
// the metallic modal ring, and a low-pass damps the loop. The spring
// outputs are diffused through four series allpasses and band-limited
// like a pickup transducer.
type Reverb struct {
	sampleRate float32

	size    float32
	damping float32
	wet     float32
	dry     float32
	width   float32

	springsL [numSprings]springLine
	springsR [numSprings]springLine

	allpassL [numAllpass]allpass
	allpassR [numAllpass]allpass

	inputTransducer biquad
	outputLowcutL   biquad
	outputHighcutL  biquad
	outputLowcutR   biquad
	outputHighcutR  biquad
}

const (
	numSprings = 3
	numAllpass = 4

	// stereoSpread offsets every right-channel line so the two channels
	// decorrelate.
	stereoSpread = 47

	reverbInputGain  = 0.8
	reverbOutputGain = 0.35
)

// Spring delay lengths in samples at 48kHz (~72ms, ~87ms, ~100ms), chosen
// without common factors so the lines don't reinforce each other.
var springLengths = [numSprings]int{3491, 4177, 4831}

var allpassLengths = [numAllpass]int{347, 431, 521, 619}

func NewReverb(sampleRate int) *Reverb {
	r := &Reverb{
		sampleRate: float32(sampleRate),
		size:       0.65,
		damping:    0.65,
		wet:        0.35,
		dry:        0.65,
		width:      1,
	}

	scale := float32(sampleRate) / 48000

	for i := 0; i < numSprings; i++ {
		length := int(float32(springLengths[i]) * scale)
		r.springsL[i].init(length, r.sampleRate, i)
		r.springsR[i].init(length+stereoSpread, r.sampleRate, i)
	}
	for i := 0; i < numAllpass; i++ {
		length := int(float32(allpassLengths[i]) * scale)
		r.allpassL[i].init(length)
		r.allpassR[i].init(length + stereoSpread)
	}

	// Input transducer bandwidth ~4kHz; output pickup ~80Hz-6kHz.
	r.inputTransducer.setLowpass(4000, 0.7, r.sampleRate)
	r.outputLowcutL.setHighpass(80, 0.7, r.sampleRate)
	r.outputHighcutL.setLowpass(6000, 0.7, r.sampleRate)
	r.outputLowcutR.setHighpass(80, 0.7, r.sampleRate)
	r.outputHighcutR.setLowpass(6000, 0.7, r.sampleRate)

	r.updateCoefficients()
	return r
}

func (r *Reverb) updateCoefficients() {
	// Feedback stays within 0.5-0.75 so the tank cannot self-oscillate
	// even with the delay feeding it.
	feedbackAmount := 0.5 + r.size*0.25
	if feedbackAmount > 0.75 {
		feedbackAmount = 0.75
	}

	dampFreq := 2000 + (1-r.damping)*4000

	for i := 0; i < numSprings; i++ {
		fb := feedbackAmount * (0.92 + float32(i)*0.015)
		r.springsL[i].feedback = fb
		r.springsR[i].feedback = fb
		r.springsL[i].damping.setLowpass(dampFreq, 0.7, r.sampleRate)
		r.springsR[i].damping.setLowpass(dampFreq, 0.7, r.sampleRate)
	}
}

func (r *Reverb) Process(in, out []float32) {
	for i := range in {
		input := in[i]

		// Input transducer: band-limit then soft-clip.
		transduced := softClip(r.inputTransducer.process(input * reverbInputGain))

		var springOutL, springOutR float32
		for s := 0; s < numSprings; s++ {
			springOutL += r.springsL[s].process(transduced)
			springOutR += r.springsR[s].process(transduced)
		}
		springOutL /= numSprings
		springOutR /= numSprings

		for a := 0; a < numAllpass; a++ {
			springOutL = r.allpassL[a].process(springOutL)
			springOutR = r.allpassR[a].process(springOutR)
		}

		springOutL = r.outputHighcutL.process(r.outputLowcutL.process(springOutL))
		springOutR = r.outputHighcutR.process(r.outputLowcutR.process(springOutR))

		mid := (springOutL + springOutR) * 0.5
		side := (springOutL - springOutR) * 0.5 * r.width
		springOutL = mid + side
		springOutR = mid - side

		// Mono chain: fold the stereo tank back down.
		wetMix := (springOutL + springOutR) * 0.5 * r.wet * reverbOutputGain
		out[i] = clamp(wetMix+input*r.dry, -1, 1)
	}
}

func (r *Reverb) SetSize(size float32) {
	size = clamp(size, 0, 1)
	if size == r.size {
		return
	}
	r.size = size
	r.updateCoefficients()
}

func (r *Reverb) Size() float32 { return r.size }

func (r *Reverb) SetMix(mix float32) {
	r.wet = clamp(mix, 0, 1)
	r.dry = 1 - r.wet
}

func (r *Reverb) Mix() float32 { return r.wet }

func (r *Reverb) SetDamping(damp float32) {
	damp = clamp(damp, 0, 1)
	if damp == r.damping {
		return
	}
	r.damping = damp
	r.updateCoefficients()
}

func (r *Reverb) Damping() float32 { return r.damping }

func (r *Reverb) SetWidth(w float32) {
	r.width = clamp(w, 0, 1)
}

// softClip bends the input with a cubic curve, flattening at ±1.5.
func softClip(x float32) float32 {
	if x > 1.5 {
		return 1
	}
	if x < -1.5 {
		return -1
	}
	return x - (x*x*x)/3
}

// springLine is one dispersive delay loop of the tank.
type springLine struct {
	buffer   []float32
	length   int
	writeIdx int
	feedback float32

	taps    [numSpringTaps]biquad
	modes   [numSpringModes]biquad
	damping biquad
}

const (
	numSpringTaps  = 5
	numSpringModes = 3
)

func (s *springLine) init(length int, sampleRate float32, spring int) {
	s.length = length
	s.buffer = make([]float32, length)
	s.feedback = 0.85

	// Dispersion taps at rising center frequencies.
	tapFreqs := [numSpringTaps]float32{200, 500, 1000, 2000, 4000}
	for i := range s.taps {
		s.taps[i].setBandpass(tapFreqs[i], 1.5, sampleRate)
	}

	// Modal resonances at non-harmonic multiples, offset per spring so
	// the three lines don't cancel.
	baseFreq := 150 + float32(spring)*50
	modalFreqs := [numSpringModes]float32{baseFreq, baseFreq * 2.3, baseFreq * 3.8}
	for i := range s.modes {
		s.modes[i].setBandpass(modalFreqs[i], 12, sampleRate)
	}

	s.damping.setLowpass(3500, 0.7, sampleRate)
}

func (s *springLine) process(input float32) float32 {
	delayed := s.buffer[s.writeIdx]

	modal := delayed
	for i := range s.modes {
		modal += s.modes[i].process(delayed) * 0.06
	}

	damped := s.damping.process(modal)

	var dispersed float32
	for i := range s.taps {
		dispersed += s.taps[i].process(damped) * (0.08 / numSpringTaps)
	}

	// Hard limit the loop so feedback can never run away.
	feedbackSig := clamp(input+damped*s.feedback+dispersed, -2, 2)
	if feedbackSig < 1e-10 && feedbackSig > -1e-10 {
		feedbackSig = 0
	}
	s.buffer[s.writeIdx] = feedbackSig

	s.writeIdx = (s.writeIdx + 1) % s.length

	return modal
}

// allpass is a fixed-length feedback delay with coefficient 0.5, used to
// smear the delay-line periodicity into a smooth tail.
type allpass struct {
	buffer []float32
	index  int
}

func (a *allpass) init(size int) {
	a.buffer = make([]float32, size)
}

func (a *allpass) process(input float32) float32 {
	bufOut := a.buffer[a.index]
	output := -input + bufOut

	v := input + bufOut*0.5
	if v < 1e-10 && v > -1e-10 {
		v = 0
	}
	a.buffer[a.index] = v

	a.index = (a.index + 1) % len(a.buffer)
	return output
}

// biquad is a direct-form-I second-order section used for the tap, modal,
// damping and transducer filters.
type biquad struct {
	b0, b1, b2, a1, a2 float32
	x1, x2, y1, y2     float32
}

func (b *biquad) setLowpass(freq, q, sampleRate float32) {
	omega := twoPi * float64(freq) / float64(sampleRate)
	cosw := float32(math.Cos(omega))
	alpha := float32(math.Sin(omega)) / (2 * q)

	a0 := 1 + alpha
	b.b0 = ((1 - cosw) / 2) / a0
	b.b1 = (1 - cosw) / a0
	b.b2 = b.b0
	b.a1 = (-2 * cosw) / a0
	b.a2 = (1 - alpha) / a0
}

func (b *biquad) setBandpass(freq, q, sampleRate float32) {
	omega := twoPi * float64(freq) / float64(sampleRate)
	cosw := float32(math.Cos(omega))
	alpha := float32(math.Sin(omega)) / (2 * q)

	a0 := 1 + alpha
	b.b0 = alpha / a0
	b.b1 = 0
	b.b2 = -alpha / a0
	b.a1 = (-2 * cosw) / a0
	b.a2 = (1 - alpha) / a0
}

func (b *biquad) setHighpass(freq, q, sampleRate float32) {
	omega := twoPi * float64(freq) / float64(sampleRate)
	cosw := float32(math.Cos(omega))
	alpha := float32(math.Sin(omega)) / (2 * q)

	a0 := 1 + alpha
	b.b0 = ((1 + cosw) / 2) / a0
	b.b1 = -(1 + cosw) / a0
	b.b2 = b.b0
	b.a1 = (-2 * cosw) / a0
	b.a2 = (1 - alpha) / a0
}

func (b *biquad) process(input float32) float32 {
	output := b.b0*input + b.b1*b.x1 + b.b2*b.x2 - b.a1*b.y1 - b.a2*b.y2

	// Flush denormals before they stall the FPU.
	if output < 1e-10 && output > -1e-10 {
		output = 0
	}

	b.x2, b.x1 = b.x1, input
	b.y2, b.y1 = b.y1, output
	return output
}

func (b *biquad) reset() {
	b.x1, b.x2, b.y1, b.y2 = 0, 0, 0, 0
}
