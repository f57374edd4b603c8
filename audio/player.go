package audio

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/dh1tw/gosamplerate"
	mp3 "github.com/hajimehoshi/go-mp3"
	wav "github.com/youpy/go-wav"
)

// Player decodes sound files to mono float32 at the engine rate and
// streams them into the output buffer. Decoding and resampling happen on
// the control thread when a file is selected; the audio thread only reads
// the finished buffer.
type Player struct {
	sampleRate int

	files   atomic.Value // []string
	current atomic.Value // *loadedSound

	fileIndex atomic.Int32
	position  atomic.Int64
	playing   atomic.Bool
	finished  atomic.Bool
}

type loadedSound struct {
	path    string
	samples []float32
}

func NewPlayer(sampleRate int) *Player {
	p := &Player{sampleRate: sampleRate}
	p.files.Store([]string{})
	p.current.Store((*loadedSound)(nil))
	return p
}

// LoadDirectory scans dir for wav and mp3 files and replaces the file
// list. Nothing is decoded until a file is selected.
func (p *Player) LoadDirectory(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read sound dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".wav", ".mp3":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(files)
	p.files.Store(files)
	p.fileIndex.Store(0)
	return nil
}

func (p *Player) Files() []string {
	return p.files.Load().([]string)
}

// SelectFile decodes the file at index and makes it the current sound.
// Playback position resets; the playing state is left as is.
func (p *Player) SelectFile(index int) error {
	files := p.Files()
	if len(files) == 0 {
		return fmt.Errorf("no sound files loaded")
	}
	index %= len(files)
	if index < 0 {
		index += len(files)
	}

	snd, err := p.load(files[index])
	if err != nil {
		return err
	}
	p.fileIndex.Store(int32(index))
	p.position.Store(0)
	p.finished.Store(false)
	p.current.Store(snd)
	return nil
}

// NextFile selects the file after the current one, wrapping around.
func (p *Player) NextFile() error {
	return p.SelectFile(int(p.fileIndex.Load()) + 1)
}

func (p *Player) CurrentFile() string {
	if snd, _ := p.current.Load().(*loadedSound); snd != nil {
		return snd.path
	}
	return ""
}

func (p *Player) Play() {
	if p.finished.Load() {
		p.position.Store(0)
		p.finished.Store(false)
	}
	p.playing.Store(true)
}

func (p *Player) Stop() {
	p.playing.Store(false)
	p.position.Store(0)
	p.finished.Store(false)
}

func (p *Player) Playing() bool  { return p.playing.Load() }
func (p *Player) Finished() bool { return p.finished.Load() }

// Fill writes up to len(out) mono samples of the current sound and
// returns how many were written. Past the end of the sound it writes
// nothing and marks the player finished.
func (p *Player) Fill(out []float32) int {
	if !p.playing.Load() {
		return 0
	}
	snd, _ := p.current.Load().(*loadedSound)
	if snd == nil {
		return 0
	}

	pos := int(p.position.Load())
	n := copy(out, snd.samples[min(pos, len(snd.samples)):])
	pos += n
	p.position.Store(int64(pos))

	if pos >= len(snd.samples) {
		p.playing.Store(false)
		p.finished.Store(true)
	}
	return n
}

func (p *Player) load(path string) (*loadedSound, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var samples []float32
	var fileRate int

	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		samples, fileRate, err = decodeWAV(f)
	case ".mp3":
		samples, fileRate, err = decodeMP3(f)
	default:
		err = fmt.Errorf("unsupported file type: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	if fileRate != p.sampleRate {
		ratio := float64(p.sampleRate) / float64(fileRate)
		samples, err = gosamplerate.Simple(samples, ratio, 1, gosamplerate.SRC_SINC_FASTEST)
		if err != nil {
			return nil, fmt.Errorf("resample %s: %w", path, err)
		}
	}
	return &loadedSound{path: path, samples: samples}, nil
}

// decodeWAV reads all samples, folding multi-channel files to mono. The
// wav reader seeks within the RIFF container, so a plain io.Reader is not
// enough.
func decodeWAV(f *os.File) ([]float32, int, error) {
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, 0, err
	}
	channels := int(format.NumChannels)

	var samples []float32
	for {
		chunk, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, err
		}
		for _, sample := range chunk {
			var sum float64
			for ch := 0; ch < channels; ch++ {
				sum += r.FloatValue(sample, uint(ch))
			}
			samples = append(samples, float32(sum/float64(channels)))
		}
	}
	return samples, int(format.SampleRate), nil
}

// decodeMP3 reads the full stream. go-mp3 always outputs 16-bit
// little-endian stereo, which is averaged down to mono.
func decodeMP3(f io.Reader) ([]float32, int, error) {
	dec, err := mp3.NewDecoder(f)
	if err != nil {
		return nil, 0, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, 0, err
	}

	frames := len(raw) / 4
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		l := int16(binary.LittleEndian.Uint16(raw[i*4:]))
		r := int16(binary.LittleEndian.Uint16(raw[i*4+2:]))
		samples[i] = (float32(l) + float32(r)) / (2 * 32768)
	}
	return samples, dec.SampleRate(), nil
}
