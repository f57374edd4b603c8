package audio

import "testing"

func TestEnvelopeAttack(t *testing.T) {
	env := NewEnvelope(48000)
	env.SetAttack(0.01)
	env.Trigger()

	prev := float32(0)
	for i := 0; i < 480; i++ {
		v := env.Sample()
		if v < prev {
			t.Fatalf("attack not monotonic at sample %d: %v < %v", i, v, prev)
		}
		prev = v
	}
	if prev < 0.9 {
		t.Errorf("envelope should be near 1 after the attack time, got %v", prev)
	}
}

func TestEnvelopeRelease(t *testing.T) {
	const sampleRate = 48000
	const releaseTime = 0.05

	env := NewEnvelope(sampleRate)
	env.SetAttack(0.001)
	env.SetRelease(releaseTime)
	env.Trigger()
	for i := 0; i < sampleRate; i++ {
		env.Sample()
	}
	env.Release()

	limit := int(5 * releaseTime * sampleRate)
	for i := 0; i < limit; i++ {
		env.Sample()
	}
	if got := env.Value(); got >= 0.001 {
		t.Errorf("envelope should decay below 0.001 within %d samples, got %v", limit, got)
	}
}

func TestEnvelopeActiveFlag(t *testing.T) {
	env := NewEnvelope(48000)
	if env.Active() {
		t.Error("new envelope should not be active")
	}
	env.Trigger()
	if !env.Active() {
		t.Error("triggered envelope should be active")
	}
	env.Sample()
	env.Release()
	if env.Active() {
		t.Error("released envelope should not be active, even while decaying")
	}
}
