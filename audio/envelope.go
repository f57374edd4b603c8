package audio

// decayScale is ln(100): an exponential stage reaches ~99% of its target
// in the configured time.
const decayScale = 4.605

// Envelope is a first-order exponential attack/release follower. While
// active it approaches 1 with the attack coefficient, after Release it
// approaches 0 with the release coefficient.
type Envelope struct {
	sampleRate   float32
	attackTime   float32
	releaseTime  float32
	attackCoeff  float32
	releaseCoeff float32
	value        float32
	active       bool
}

func NewEnvelope(sampleRate int) *Envelope {
	e := &Envelope{
		sampleRate:  float32(sampleRate),
		attackTime:  0.01,
		releaseTime: 0.05,
	}
	e.updateCoefficients()
	return e
}

func (e *Envelope) updateCoefficients() {
	e.attackCoeff = decayScale / (e.attackTime * e.sampleRate)
	e.releaseCoeff = decayScale / (e.releaseTime * e.sampleRate)
}

func (e *Envelope) SetAttack(seconds float32) {
	e.attackTime = clamp(seconds, 0.001, 2)
	e.updateCoefficients()
}

func (e *Envelope) SetRelease(seconds float32) {
	e.releaseTime = clamp(seconds, 0.01, 5)
	e.updateCoefficients()
}

func (e *Envelope) AttackTime() float32  { return e.attackTime }
func (e *Envelope) ReleaseTime() float32 { return e.releaseTime }

func (e *Envelope) Trigger() { e.active = true }
func (e *Envelope) Release() { e.active = false }

// Active reports whether the attack phase is in progress. It is a flag
// toggled only by Trigger/Release, not derived from the current value.
func (e *Envelope) Active() bool { return e.active }

func (e *Envelope) Value() float32 { return e.value }

func (e *Envelope) Generate(out []float32) {
	for i := range out {
		out[i] = e.Sample()
	}
}

func (e *Envelope) Sample() float32 {
	var target, coeff float32
	if e.active {
		target, coeff = 1, e.attackCoeff
	} else {
		target, coeff = 0, e.releaseCoeff
	}
	e.value += (target - e.value) * coeff
	return e.value
}
