package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/parkredding/poorhouse-lane-v3/audio"
)

func main() {
	var (
		rate       = flag.Int("rate", audio.DefaultSampleRate, "sample rate in Hz")
		frames     = flag.Int("frames", audio.DefaultBufferSize, "buffer size in frames")
		simulate   = flag.Bool("simulate", false, "discard output instead of opening a sound device")
		sounds     = flag.String("sounds", "", "directory of wav/mp3 files for playback mode")
		presetName = flag.String("preset", "", "preset to load at startup")
	)
	flag.Parse()

	engine := audio.NewEngine(*rate, *frames)

	if *sounds != "" {
		if err := engine.Player().LoadDirectory(*sounds); err != nil {
			log.Fatal(err)
		}
	}
	if *presetName != "" {
		if err := audio.LoadPreset(*presetName, engine); err != nil {
			log.Fatal(err)
		}
	}

	var device audio.OutputDevice
	if *simulate {
		device = audio.NewNullDevice(*rate, *frames)
	} else {
		d, err := audio.NewPortAudioDevice(*rate, *frames, audio.DefaultChannels)
		if err != nil {
			log.Fatal(err)
		}
		device = d
	}

	transport := audio.NewTransport(engine, device, *rate, *frames, audio.DefaultChannels)
	if err := transport.Start(); err != nil {
		log.Fatal(err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigs
		transport.Stop()
		os.Exit(0)
	}()

	env := &env{engine: engine, transport: transport}
	if err := repl(env); err != nil && err != io.EOF {
		fmt.Println(err)
		os.Exit(1)
	}
	if err := transport.Stop(); err != nil {
		log.Fatal(err)
	}
}
