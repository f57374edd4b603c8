package audio

import "math"

// Delay is a tape-style echo. The read offset slews toward the target
// delay time instead of jumping, which repitches the audible tail the way
// a varispeed tape loop does, and two slow sinusoidal modulators (wobble
// and flutter) emulate transport speed instability. The feedback path is
// high-passed, low-passed and saturated like a worn tape loop.
type Delay struct {
	sampleRate      float32
	maxDelaySamples int
	buffer          []float32
	writePos        int

	delayTime float32
	feedback  float32
	mix       float32

	currentDelaySamples float32 // slewed read offset
	repitchRate         float32
	slewRate            float32

	hpFreq  float32
	lpFreq  float32
	hpState float32
	lpState float32

	modDepth float32
	modRate  float32
	modPhase float32

	flutterDepth float32
	flutterRate  float32
	flutterPhase float32

	saturation float32
}

// NewDelay allocates the ring buffer once, at the maximum configurable
// delay time. No allocation happens during processing.
func NewDelay(sampleRate int, maxDelay float32) *Delay {
	maxSamples := int(maxDelay * float32(sampleRate))
	d := &Delay{
		sampleRate:          float32(sampleRate),
		maxDelaySamples:     maxSamples,
		buffer:              make([]float32, maxSamples),
		delayTime:           0.3,
		feedback:            0.3,
		currentDelaySamples: 0.3 * float32(sampleRate),
		repitchRate:         0.5,
		hpFreq:              80,
		lpFreq:              5000,
		modDepth:            0.003,
		modRate:             0.5,
		flutterDepth:        0.001,
		flutterRate:         3.5,
		saturation:          0.3,
	}
	d.slewRate = d.calcSlewRate()
	return d
}

func (d *Delay) calcSlewRate() float32 {
	if d.repitchRate <= 0 {
		return float32(math.Inf(1))
	}
	maxSlewTime := 2 * d.repitchRate
	return float32(d.maxDelaySamples) / (maxSlewTime * d.sampleRate)
}

func (d *Delay) Process(in, out []float32) {
	targetDelaySamples := d.delayTime * d.sampleRate

	for i := range in {
		// Approach the target delay length by at most slewRate per
		// sample. An infinite slew rate means instant jumps.
		if math.IsInf(float64(d.slewRate), 1) {
			d.currentDelaySamples = targetDelaySamples
		} else {
			diff := targetDelaySamples - d.currentDelaySamples
			switch {
			case diff > d.slewRate:
				d.currentDelaySamples += d.slewRate
			case diff < -d.slewRate:
				d.currentDelaySamples -= d.slewRate
			default:
				d.currentDelaySamples = targetDelaySamples
			}
		}

		mod := float32(math.Sin(twoPi * float64(d.modRate) * float64(d.modPhase) / float64(d.sampleRate)))
		modSamples := d.modDepth * d.sampleRate * mod

		flutter := float32(math.Sin(twoPi * float64(d.flutterRate) * float64(d.flutterPhase) / float64(d.sampleRate)))
		flutterSamples := d.flutterDepth * d.sampleRate * flutter

		totalDelay := clamp(d.currentDelaySamples+modSamples+flutterSamples, 1, float32(d.maxDelaySamples-2))

		d.modPhase++
		if d.modPhase >= d.sampleRate {
			d.modPhase = 0
		}
		d.flutterPhase++
		if d.flutterPhase >= d.sampleRate {
			d.flutterPhase = 0
		}

		delayed := d.lerpRead(totalDelay)
		feedbackSignal := d.processFeedbackFilters(delayed)

		d.buffer[d.writePos] = clampSample(in[i] + feedbackSignal*d.feedback)
		d.writePos = (d.writePos + 1) % d.maxDelaySamples

		out[i] = in[i]*(1-d.mix) + delayed*d.mix
	}
}

// lerpRead reads the buffer at a fractional offset behind the write
// cursor, interpolating linearly between the two neighboring samples.
func (d *Delay) lerpRead(delaySamples float32) float32 {
	readPos := float32(d.writePos) - delaySamples
	if readPos < 0 {
		readPos += float32(d.maxDelaySamples)
	}

	readPosInt := int(readPos)
	frac := readPos - float32(readPosInt)

	idx0 := readPosInt % d.maxDelaySamples
	idx1 := (readPosInt + 1) % d.maxDelaySamples

	return d.buffer[idx0]*(1-frac) + d.buffer[idx1]*frac
}

// processFeedbackFilters runs the delayed sample through the feedback
// path: high-pass against low-end buildup, low-pass for tape treble
// loss, then a linear/saturated blend proportional to the tape
// saturation amount.
func (d *Delay) processFeedbackFilters(sample float32) float32 {
	hpCoeff := 1 - float32(math.Exp(-twoPi*float64(d.hpFreq)/float64(d.sampleRate)))
	d.hpState = clampSample(d.hpState + hpCoeff*(sample-d.hpState))
	filtered := sample - d.hpState

	lpCoeff := 1 - float32(math.Exp(-twoPi*float64(d.lpFreq)/float64(d.sampleRate)))
	d.lpState = clampSample(d.lpState + lpCoeff*(filtered-d.lpState))

	saturated := fastTanh(d.lpState * (1 + d.saturation*2))
	return d.lpState*(1-d.saturation) + saturated*d.saturation
}

func (d *Delay) SetDelayTime(seconds float32) {
	d.delayTime = clamp(seconds, 0.001, 2)
}

func (d *Delay) DelayTime() float32 { return d.delayTime }

func (d *Delay) SetFeedback(fb float32) {
	d.feedback = clamp(fb, 0, 0.95)
}

func (d *Delay) Feedback() float32 { return d.feedback }

func (d *Delay) SetMix(mix float32) {
	d.mix = clamp(mix, 0, 1)
}

func (d *Delay) Mix() float32 { return d.mix }

// SetRepitchRate controls how slowly the read offset follows delay-time
// changes: 0 is an instant jump, 1 the slowest (most audible) repitch.
func (d *Delay) SetRepitchRate(rate float32) {
	d.repitchRate = clamp(rate, 0, 1)
	d.slewRate = d.calcSlewRate()
}

func (d *Delay) SetModDepth(depth float32) {
	d.modDepth = clamp(depth, 0, 0.01)
}

func (d *Delay) SetModRate(rate float32) {
	d.modRate = clamp(rate, 0.1, 5)
}

func (d *Delay) SetSaturation(amount float32) {
	d.saturation = clamp(amount, 0, 1)
}
