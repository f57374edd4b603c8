package audio

import (
	"log"
	"math"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// Stats is a snapshot of the transport's counters.
type Stats struct {
	BuffersProcessed uint64
	Underruns        uint64
	CPUPercent       float64
}

// Transport runs the engine: a dedicated goroutine renders one period at
// a time and pushes it to the output device with blocking writes. The
// device's own pacing is the clock.
type Transport struct {
	engine     *Engine
	device     OutputDevice
	sampleRate int
	bufferSize int
	channels   int

	buffersProcessed atomic.Uint64
	underruns        atomic.Uint64
	cpuPercent       atomic.Uint64 // math.Float64bits

	running atomic.Bool
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
}

func NewTransport(engine *Engine, device OutputDevice, sampleRate, bufferSize, channels int) *Transport {
	return &Transport{
		engine:     engine,
		device:     device,
		sampleRate: sampleRate,
		bufferSize: bufferSize,
		channels:   channels,
	}
}

func (t *Transport) Start() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running.Load() {
		return nil
	}
	if err := t.device.Start(); err != nil {
		return err
	}
	t.stop = make(chan struct{})
	t.done = make(chan struct{})
	t.running.Store(true)
	go t.run()
	return nil
}

func (t *Transport) Stop() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running.Load() {
		return nil
	}
	close(t.stop)
	<-t.done
	t.running.Store(false)
	return t.device.Stop()
}

func (t *Transport) Running() bool { return t.running.Load() }

func (t *Transport) Stats() Stats {
	return Stats{
		BuffersProcessed: t.buffersProcessed.Load(),
		Underruns:        t.underruns.Load(),
		CPUPercent:       math.Float64frombits(t.cpuPercent.Load()),
	}
}

func (t *Transport) run() {
	defer close(t.done)

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if err := setRealtimePriority(); err != nil {
		log.Printf("transport: realtime priority unavailable: %v", err)
	}

	floatBuf := make([]float32, t.bufferSize*t.channels)
	intBuf := make([]int16, t.bufferSize*t.channels)
	period := time.Duration(t.bufferSize) * time.Second / time.Duration(t.sampleRate)

	var (
		cpuSum, cpuMax float64
		cpuCount       int
		underrunBurst  uint64
		lastSummary    = time.Now()
	)

	for {
		select {
		case <-t.stop:
			return
		default:
		}

		start := time.Now()
		t.engine.Process(floatBuf, t.bufferSize)
		for i, s := range floatBuf {
			intBuf[i] = int16(clamp(s, -1, 1) * 32767)
		}
		elapsed := time.Since(start)

		cpu := 100 * float64(elapsed) / float64(period)
		t.cpuPercent.Store(math.Float64bits(cpu))
		cpuSum += cpu
		cpuCount++
		if cpu > cpuMax {
			cpuMax = cpu
		}

		err := t.device.Write(intBuf)
		switch {
		case err == ErrUnderrun:
			// Stay quiet during a burst; logging here would make the
			// glitch worse.
			t.underruns.Add(1)
			underrunBurst++
		case err != nil:
			log.Printf("transport: device write: %v", err)
		default:
			if underrunBurst > 0 {
				log.Printf("transport: recovered after %d underruns", underrunBurst)
				underrunBurst = 0
			}
		}
		t.buffersProcessed.Add(1)

		if time.Since(lastSummary) >= 10*time.Second {
			log.Printf("transport: cpu avg %.1f%% max %.1f%% over %d buffers",
				cpuSum/float64(cpuCount), cpuMax, cpuCount)
			cpuSum, cpuMax, cpuCount = 0, 0, 0
			lastSummary = time.Now()
		}
	}
}
