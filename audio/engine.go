package audio

import (
	"math"
	"sync"
	"sync/atomic"
)

// Property keys of the engine's control surface.
const (
	PropVolume          = "volume"
	PropFrequency       = "osc.freq"
	PropWaveform        = "osc.wave"
	PropAttack          = "env.attack"
	PropRelease         = "env.release"
	PropLfoRate         = "lfo.rate"
	PropLfoDepth        = "lfo.depth"
	PropLfoPitchDepth   = "lfo.pitch"
	PropLfoWaveform     = "lfo.wave"
	PropLfoTarget       = "lfo.target"
	PropFilterCutoff    = "filter.cutoff"
	PropFilterResonance = "filter.res"
	PropDelayTime       = "delay.time"
	PropDelayFeedback   = "delay.feedback"
	PropDelayMix        = "delay.mix"
	PropDelayRepitch    = "delay.repitch"
	PropDelaySaturation = "delay.saturation"
	PropReverbSize      = "reverb.size"
	PropReverbMix       = "reverb.mix"
	PropReverbDamping   = "reverb.damping"
	PropReverbWidth     = "reverb.width"
	PropPitchEnvMode    = "pitchenv.mode"
	PropMode            = "mode"
)

// LFO routing targets.
const (
	LfoTargetPitch = iota
	LfoTargetCutoff
	numLfoTargets
)

// freqSmoothing is the one-pole coefficient applied to the per-sample
// target frequency before it reaches the oscillator.
const freqSmoothing = 0.08

// maxDelayTime sizes the delay ring buffer.
const maxDelayTime = 2.0

// Engine is the monophonic voice plus its two serial effects. Process
// runs on the audio thread only; all parameter cells are written from
// control threads and read here, and trigger/release travel through a
// lock-free event queue so the multi-field state they touch changes
// atomically with respect to the audio thread.
type Engine struct {
	sampleRate int
	bufferSize int
	channels   int

	osc     *Oscillator
	env     *Envelope
	lfo     *LFO
	filter  *Filter
	delay   *Delay
	reverb  *Reverb
	dc      *DCBlocker
	player  *Player
	props   *Props
	events  *eventQueue
	eventMu sync.Mutex

	mono []float32

	volume        *atomic.Value
	frequency     *atomic.Value
	waveform      *atomic.Value
	attack        *atomic.Value
	release       *atomic.Value
	lfoRate       *atomic.Value
	lfoDepth      *atomic.Value
	lfoPitchDepth *atomic.Value
	lfoWaveform   *atomic.Value
	lfoTarget     *atomic.Value
	cutoff        *atomic.Value
	resonance     *atomic.Value
	delayTime     *atomic.Value
	delayFeedback *atomic.Value
	delayMix      *atomic.Value
	delayRepitch  *atomic.Value
	delaySat      *atomic.Value
	reverbSize    *atomic.Value
	reverbMix     *atomic.Value
	reverbDamping *atomic.Value
	reverbWidth   *atomic.Value
	pitchEnvMode  *atomic.Value
	mode          *atomic.Value

	// Audio-thread state.
	smoothedFreq      smoothedValue
	inRelease         bool
	releaseStartLevel float32
	silent            bool
}

func NewEngine(sampleRate, bufferSize int) *Engine {
	e := &Engine{
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		channels:   DefaultChannels,
		osc:        NewOscillator(sampleRate),
		env:        NewEnvelope(sampleRate),
		lfo:        NewLFO(sampleRate),
		filter:     NewFilter(sampleRate),
		delay:      NewDelay(sampleRate, maxDelayTime),
		reverb:     NewReverb(sampleRate),
		dc:         NewDCBlocker(),
		player:     NewPlayer(sampleRate),
		props:      NewProps(),
		events:     newEventQueue(64),
		mono:       make([]float32, bufferSize),
	}
	e.smoothedFreq = newSmoothedValue(660, freqSmoothing)

	// Defaults form the auto-wail patch, so the box makes the right
	// sound the moment it is triggered.
	p := e.props
	e.volume = p.MustRegister(PropVolume, setFloat(0, 1), float32(0.7))
	e.frequency = p.MustRegister(PropFrequency, setFloat(MinFrequency, MaxFrequency), float32(660))
	e.waveform = p.MustRegister(PropWaveform, setIntMod(numWaveforms), int(Square))
	e.attack = p.MustRegister(PropAttack, setFloat(0.001, 2), float32(0.01))
	e.release = p.MustRegister(PropRelease, setFloat(0.01, 5), float32(0.5))
	e.lfoRate = p.MustRegister(PropLfoRate, setFloat(0.1, 20), float32(0.35))
	e.lfoDepth = p.MustRegister(PropLfoDepth, setFloat(0, 1), float32(1))
	e.lfoPitchDepth = p.MustRegister(PropLfoPitchDepth, setFloat(0, 1), float32(0.5))
	e.lfoWaveform = p.MustRegister(PropLfoWaveform, setIntMod(numWaveforms), int(Triangle))
	e.lfoTarget = p.MustRegister(PropLfoTarget, setIntMod(numLfoTargets), LfoTargetPitch)
	e.cutoff = p.MustRegister(PropFilterCutoff, setFloat(MinFrequency, MaxFrequency), float32(MaxFrequency))
	e.resonance = p.MustRegister(PropFilterResonance, setFloat(0.1, 20), float32(1))
	e.delayTime = p.MustRegister(PropDelayTime, setFloat(0.001, maxDelayTime), float32(0.45))
	e.delayFeedback = p.MustRegister(PropDelayFeedback, setFloat(0, 0.95), float32(0.55))
	e.delayMix = p.MustRegister(PropDelayMix, setFloat(0, 1), float32(0.3))
	e.delayRepitch = p.MustRegister(PropDelayRepitch, setFloat(0, 1), float32(0.5))
	e.delaySat = p.MustRegister(PropDelaySaturation, setFloat(0, 1), float32(0.3))
	e.reverbSize = p.MustRegister(PropReverbSize, setFloat(0, 1), float32(0.65))
	e.reverbMix = p.MustRegister(PropReverbMix, setFloat(0, 1), float32(0.4))
	e.reverbDamping = p.MustRegister(PropReverbDamping, setFloat(0, 1), float32(0.65))
	e.reverbWidth = p.MustRegister(PropReverbWidth, setFloat(0, 1), float32(1))
	e.pitchEnvMode = p.MustRegister(PropPitchEnvMode, setIntMod(numPitchEnvModes), int(PitchEnvUp))
	e.mode = p.MustRegister(PropMode, setIntMod(2), int(ModeSynthesis))

	return e
}

// Props exposes the parameter registry, for control surfaces that address
// parameters by name.
func (e *Engine) Props() *Props { return e.props }

// Player exposes the file player for the playback mode.
func (e *Engine) Player() *Player { return e.player }

// Set updates a parameter by key. Out-of-range values are clamped.
func (e *Engine) Set(key string, value interface{}) error {
	return e.props.Set(key, value)
}

func (e *Engine) Get(key string) (interface{}, error) {
	return e.props.Get(key)
}

// Trigger starts a note: the oscillator phase resets and the envelope
// enters its attack phase on the next buffer.
func (e *Engine) Trigger() {
	e.eventMu.Lock()
	e.events.push(controlEvent{kind: eventTrigger})
	e.eventMu.Unlock()
}

// Release ends the note, starting the envelope release and, if a pitch
// envelope mode is set, the pitch sweep.
func (e *Engine) Release() {
	e.eventMu.Lock()
	e.events.push(controlEvent{kind: eventRelease})
	e.eventMu.Unlock()
}

// CyclePitchEnvelope steps the pitch envelope mode none -> up -> down and
// returns the new mode.
func (e *Engine) CyclePitchEnvelope() PitchEnvMode {
	e.eventMu.Lock()
	defer e.eventMu.Unlock()
	mode := PitchEnvMode(e.pitchEnvMode.Load().(int))
	mode = PitchEnvMode((int(mode) + 1) % numPitchEnvModes)
	e.pitchEnvMode.Store(int(mode))
	return mode
}

func (e *Engine) SetVolume(v float32)      { e.props.Set(PropVolume, v) }
func (e *Engine) SetFrequency(hz float32)  { e.props.Set(PropFrequency, hz) }
func (e *Engine) SetWaveform(w Waveform)   { e.props.Set(PropWaveform, int(w)) }
func (e *Engine) SetAttackTime(s float32)  { e.props.Set(PropAttack, s) }
func (e *Engine) SetReleaseTime(s float32) { e.props.Set(PropRelease, s) }
func (e *Engine) SetLfoRate(hz float32)    { e.props.Set(PropLfoRate, hz) }
func (e *Engine) SetLfoDepth(d float32)    { e.props.Set(PropLfoDepth, d) }
func (e *Engine) SetLfoPitchDepth(d float32) {
	e.props.Set(PropLfoPitchDepth, d)
}
func (e *Engine) SetLfoWaveform(w Waveform)  { e.props.Set(PropLfoWaveform, int(w)) }
func (e *Engine) SetFilterCutoff(hz float32) { e.props.Set(PropFilterCutoff, hz) }
func (e *Engine) SetFilterResonance(q float32) {
	e.props.Set(PropFilterResonance, q)
}
func (e *Engine) SetDelayTime(s float32)      { e.props.Set(PropDelayTime, s) }
func (e *Engine) SetDelayFeedback(fb float32) { e.props.Set(PropDelayFeedback, fb) }
func (e *Engine) SetDelayMix(m float32)       { e.props.Set(PropDelayMix, m) }
func (e *Engine) SetReverbSize(s float32)     { e.props.Set(PropReverbSize, s) }
func (e *Engine) SetReverbMix(m float32)      { e.props.Set(PropReverbMix, m) }
func (e *Engine) SetReverbDamping(d float32)  { e.props.Set(PropReverbDamping, d) }
func (e *Engine) SetPitchEnvelopeMode(m PitchEnvMode) {
	e.props.Set(PropPitchEnvMode, int(m))
}
func (e *Engine) SetMode(m Mode) { e.props.Set(PropMode, int(m)) }

func (e *Engine) Volume() float32 {
	return e.volume.Load().(float32)
}

func (e *Engine) Frequency() float32 {
	return e.frequency.Load().(float32)
}

func (e *Engine) Waveform() Waveform {
	return Waveform(e.waveform.Load().(int))
}

func (e *Engine) PitchEnvelopeMode() PitchEnvMode {
	return PitchEnvMode(e.pitchEnvMode.Load().(int))
}

func (e *Engine) Mode() Mode {
	return Mode(e.mode.Load().(int))
}

// CurrentFrequency reports the oscillator's smoothed frequency, including
// pitch envelope and LFO modulation. Audio-thread-adjacent reads from
// tests only.
func (e *Engine) CurrentFrequency() float32 {
	return e.osc.Frequency()
}

func (e *Engine) EnvelopeValue() float32 {
	return e.env.Value()
}

// Process renders frames samples into out, interleaved across the
// engine's channels. Called from the audio thread only.
func (e *Engine) Process(out []float32, frames int) {
	e.events.drain(e.handleEvent)
	e.applyParams()

	mono := e.mono[:frames]

	// Playback mode hands the buffer to the file player untouched; the
	// synthesis units and effects stay idle.
	if Mode(e.mode.Load().(int)) == ModeFilePlayback {
		n := e.player.Fill(mono)
		for i := n; i < frames; i++ {
			mono[i] = 0
		}
		for i, s := range mono {
			base := i * e.channels
			for ch := 0; ch < e.channels; ch++ {
				out[base+ch] = s
			}
		}
		return
	}

	e.synthesize(mono)

	e.delay.Process(mono, mono)
	e.reverb.Process(mono, mono)

	volume := e.volume.Load().(float32)
	for i, s := range mono {
		v := clamp(e.dc.Sample(s)*volume, -1, 1)
		base := i * e.channels
		for ch := 0; ch < e.channels; ch++ {
			out[base+ch] = v
		}
	}
}

func (e *Engine) handleEvent(ev controlEvent) {
	switch ev.kind {
	case eventTrigger:
		e.osc.ResetPhase()
		e.env.Trigger()
		e.inRelease = false
	case eventRelease:
		e.releaseStartLevel = e.env.Value()
		e.inRelease = true
		e.env.Release()
	}
}

// applyParams forwards the atomic parameter cells to the units that own
// them. Runs once per buffer; the units do their own smoothing where a
// per-buffer step would be audible.
func (e *Engine) applyParams() {
	e.osc.SetWaveform(Waveform(e.waveform.Load().(int)))
	e.env.SetAttack(e.attack.Load().(float32))
	e.env.SetRelease(e.release.Load().(float32))
	e.lfo.SetFrequency(e.lfoRate.Load().(float32))
	e.lfo.SetDepth(e.lfoDepth.Load().(float32))
	e.lfo.SetWaveform(Waveform(e.lfoWaveform.Load().(int)))
	e.filter.SetResonance(e.resonance.Load().(float32))
	e.delay.SetDelayTime(e.delayTime.Load().(float32))
	e.delay.SetFeedback(e.delayFeedback.Load().(float32))
	e.delay.SetMix(e.delayMix.Load().(float32))
	e.delay.SetRepitchRate(e.delayRepitch.Load().(float32))
	e.delay.SetSaturation(e.delaySat.Load().(float32))
	e.reverb.SetSize(e.reverbSize.Load().(float32))
	e.reverb.SetMix(e.reverbMix.Load().(float32))
	e.reverb.SetDamping(e.reverbDamping.Load().(float32))
	e.reverb.SetWidth(e.reverbWidth.Load().(float32))
}

func (e *Engine) synthesize(mono []float32) {
	baseFreq := e.frequency.Load().(float32)
	pitchDepth := e.lfoPitchDepth.Load().(float32)
	pitchMode := PitchEnvMode(e.pitchEnvMode.Load().(int))
	lfoTarget := e.lfoTarget.Load().(int)
	cutoffBase := e.cutoff.Load().(float32)

	// A fully open cutoff bypasses the filter entirely.
	filterEngaged := cutoffBase < MaxFrequency

	for i := range mono {
		envValue := e.env.Sample()
		if e.inRelease && envValue < envSilence {
			e.inRelease = false
		}

		pitchMult := float32(1)
		if e.inRelease && pitchMode != PitchEnvNone && e.releaseStartLevel > 0 {
			progress := clamp(1-envValue/e.releaseStartLevel, 0, 1)
			if pitchMode == PitchEnvUp {
				pitchMult = pow(4, progress)
			} else {
				pitchMult = pow(0.25, progress)
			}
		}

		lfoSample := e.lfo.Sample()
		target := baseFreq * pitchMult
		if lfoTarget == LfoTargetPitch && pitchDepth > 0 {
			target *= pow(2, lfoSample*pitchDepth)
		}
		e.smoothedFreq.setTarget(target)
		e.osc.SetFrequency(e.smoothedFreq.next())

		v := e.osc.Sample() * envValue

		if envValue < envSilence && !e.env.Active() {
			v = 0
			if !e.silent {
				e.filter.Reset()
				e.silent = true
			}
		} else {
			e.silent = false
		}

		if filterEngaged {
			fc := cutoffBase
			if lfoTarget == LfoTargetCutoff {
				fc *= pow(2, lfoSample)
			}
			e.filter.SetCutoff(fc)
			v = e.filter.Sample(v)
		}

		mono[i] = v
	}
}

func pow(base, exp float32) float32 {
	return float32(math.Pow(float64(base), float64(exp)))
}
