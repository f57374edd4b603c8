package audio

import (
	"os"
	"path/filepath"
	"testing"

	wav "github.com/youpy/go-wav"
)

func writeTestWAV(t *testing.T, path string, numSamples int, sampleRate int) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	w := wav.NewWriter(f, uint32(numSamples), 1, uint32(sampleRate), 16)
	samples := make([]wav.Sample, numSamples)
	for i := range samples {
		samples[i].Values[0] = 1000
	}
	if err := w.WriteSamples(samples); err != nil {
		t.Fatal(err)
	}
}

func TestDecodeWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tone.wav")
	writeTestWAV(t, path, 500, 44100)

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	samples, rate, err := decodeWAV(f)
	if err != nil {
		t.Fatal(err)
	}
	if rate != 44100 {
		t.Errorf("sample rate: want 44100, got %d", rate)
	}
	if len(samples) != 500 {
		t.Errorf("samples: want 500, got %d", len(samples))
	}
}

func TestPlayerLoadsAndPlays(t *testing.T) {
	dir := t.TempDir()
	const numSamples = 1000
	writeTestWAV(t, filepath.Join(dir, "horn.wav"), numSamples, testSampleRate)
	writeTestWAV(t, filepath.Join(dir, "alarm.wav"), numSamples, testSampleRate)

	p := NewPlayer(testSampleRate)
	if err := p.LoadDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if got := len(p.Files()); got != 2 {
		t.Fatalf("want 2 files, got %d", got)
	}

	if err := p.SelectFile(0); err != nil {
		t.Fatal(err)
	}
	p.Play()
	if !p.Playing() {
		t.Error("player should be playing")
	}

	out := make([]float32, 256)
	var total int
	for i := 0; i < 10; i++ {
		total += p.Fill(out)
	}
	if total != numSamples {
		t.Errorf("want %d samples, got %d", numSamples, total)
	}
	if !p.Finished() {
		t.Error("player should be finished after the file ends")
	}
	if p.Playing() {
		t.Error("player should stop playing after the file ends")
	}
}

func TestPlayerNextFileWraps(t *testing.T) {
	dir := t.TempDir()
	writeTestWAV(t, filepath.Join(dir, "a.wav"), 100, testSampleRate)
	writeTestWAV(t, filepath.Join(dir, "b.wav"), 100, testSampleRate)

	p := NewPlayer(testSampleRate)
	if err := p.LoadDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectFile(0); err != nil {
		t.Fatal(err)
	}
	first := p.CurrentFile()

	if err := p.NextFile(); err != nil {
		t.Fatal(err)
	}
	if p.CurrentFile() == first {
		t.Error("NextFile should select a different file")
	}
	if err := p.NextFile(); err != nil {
		t.Fatal(err)
	}
	if got := p.CurrentFile(); got != first {
		t.Errorf("NextFile should wrap around to %s, got %s", first, got)
	}
}

func TestPlayerStopResets(t *testing.T) {
	dir := t.TempDir()
	writeTestWAV(t, filepath.Join(dir, "a.wav"), 500, testSampleRate)

	p := NewPlayer(testSampleRate)
	if err := p.LoadDirectory(dir); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectFile(0); err != nil {
		t.Fatal(err)
	}
	p.Play()

	out := make([]float32, 256)
	p.Fill(out)
	p.Stop()

	if p.Playing() {
		t.Error("player should not be playing after Stop")
	}
	p.Play()
	if n := p.Fill(out); n != 256 {
		t.Errorf("playback should restart from the beginning, got %d samples", n)
	}
}

func TestPlayerEmptyDirectory(t *testing.T) {
	p := NewPlayer(testSampleRate)
	if err := p.LoadDirectory(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	if err := p.SelectFile(0); err == nil {
		t.Error("expected error selecting a file with none loaded")
	}
	out := make([]float32, 64)
	p.Play()
	if n := p.Fill(out); n != 0 {
		t.Errorf("fill with no file should write nothing, got %d", n)
	}
}
