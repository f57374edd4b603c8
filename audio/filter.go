package audio

import "math"

// satKnee is where the filter's integrator saturation bends. At high Q
// the raw integrator states exceed unity by roughly the Q factor; hard
// clipping there sounds harsh, while a tanh-shaped curve limits the
// resonant peak and leaves the passband alone.
const satKnee = 1.5

// filterSmoothing is the one-pole coefficient applied to cutoff and
// resonance targets before use.
const filterSmoothing = 0.05

// Filter is a two-pole Chamberlin state-variable low-pass with resonance.
type Filter struct {
	sampleRate float32
	cutoff     smoothedValue
	resonance  smoothedValue
	lpState    float32
	bpState    float32
}

func NewFilter(sampleRate int) *Filter {
	return &Filter{
		sampleRate: float32(sampleRate),
		cutoff:     newSmoothedValue(3000, filterSmoothing),
		resonance:  newSmoothedValue(1, filterSmoothing),
	}
}

func (f *Filter) SetCutoff(hz float32) {
	f.cutoff.setTarget(clamp(hz, MinFrequency, MaxFrequency))
}

func (f *Filter) Cutoff() float32 { return f.cutoff.target }

func (f *Filter) SetResonance(q float32) {
	f.resonance.setTarget(clamp(q, 0.1, 20))
}

func (f *Filter) Resonance() float32 { return f.resonance.target }

// Reset zeroes the integrators and re-syncs the smoothers to their
// targets. Used when entering silence, where filter ringing would be
// audible on its own.
func (f *Filter) Reset() {
	f.lpState = 0
	f.bpState = 0
	f.cutoff.setImmediate(f.cutoff.target)
	f.resonance.setImmediate(f.resonance.target)
}

func (f *Filter) Process(in, out []float32) {
	for i := range in {
		out[i] = f.Sample(in[i])
	}
}

func (f *Filter) Sample(input float32) float32 {
	fc := f.cutoff.next()
	if max := f.sampleRate * 0.49; fc > max {
		fc = max
	}
	// Frequency drive coefficient of the SVF tick.
	fcoeff := 2 * float32(math.Sin(math.Pi*float64(fc)/float64(f.sampleRate)))
	qInv := 1 / f.resonance.next()

	lp := f.lpState + fcoeff*f.bpState
	hp := input - lp - qInv*f.bpState
	bp := fcoeff*hp + f.bpState

	f.lpState = saturate(lp)
	f.bpState = saturate(bp)

	return lp
}

// saturate bounds a filter integrator state with a tanh-shaped curve
// bending at ±satKnee.
func saturate(x float32) float32 {
	return satKnee * fastTanh(x/satKnee)
}

// DCBlocker is a first-order high-pass at roughly 10Hz, removing the DC
// offset that accumulates in the feedback paths upstream of it.
type DCBlocker struct {
	xPrev float32
	yPrev float32
	coeff float32
}

func NewDCBlocker() *DCBlocker {
	return &DCBlocker{coeff: 0.995}
}

func (d *DCBlocker) Process(in, out []float32) {
	for i := range in {
		out[i] = d.Sample(in[i])
	}
}

func (d *DCBlocker) Sample(input float32) float32 {
	y := input - d.xPrev + d.coeff*d.yPrev
	d.xPrev = input
	d.yPrev = y
	return y
}

func (d *DCBlocker) Reset() {
	d.xPrev = 0
	d.yPrev = 0
}
