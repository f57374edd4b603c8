package audio

import (
	"errors"
	"time"

	"github.com/gordonklaus/portaudio"
)

// ErrUnderrun is returned by a device write that arrived too late to keep
// the output buffer fed. The written period still played (with a glitch);
// the transport counts these and keeps going.
var ErrUnderrun = errors.New("audio: output underrun")

// OutputDevice is a blocking interleaved int16 sink. Write blocks until
// the device has accepted one period of frames.
type OutputDevice interface {
	Start() error
	Write(samples []int16) error
	Stop() error
}

// PortAudioDevice plays through the system default output using a
// blocking portaudio stream.
type PortAudioDevice struct {
	stream *portaudio.Stream
	buf    []int16
}

func NewPortAudioDevice(sampleRate, bufferSize, channels int) (*PortAudioDevice, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	d := &PortAudioDevice{buf: make([]int16, bufferSize*channels)}
	stream, err := portaudio.OpenDefaultStream(0, channels, float64(sampleRate), bufferSize, &d.buf)
	if err != nil {
		portaudio.Terminate()
		return nil, err
	}
	d.stream = stream
	return d, nil
}

func (d *PortAudioDevice) Start() error {
	return d.stream.Start()
}

func (d *PortAudioDevice) Write(samples []int16) error {
	copy(d.buf, samples)
	if err := d.stream.Write(); err != nil {
		if errors.Is(err, portaudio.OutputUnderflowed) {
			return ErrUnderrun
		}
		return err
	}
	return nil
}

func (d *PortAudioDevice) Stop() error {
	err := d.stream.Close()
	portaudio.Terminate()
	return err
}

// NullDevice discards samples at real-time pace. Used by the simulate
// flag and anywhere no sound hardware exists.
type NullDevice struct {
	period time.Duration
}

func NewNullDevice(sampleRate, bufferSize int) *NullDevice {
	return &NullDevice{
		period: time.Duration(bufferSize) * time.Second / time.Duration(sampleRate),
	}
}

func (d *NullDevice) Start() error { return nil }

func (d *NullDevice) Write(samples []int16) error {
	time.Sleep(d.period)
	return nil
}

func (d *NullDevice) Stop() error { return nil }
