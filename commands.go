package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/parkredding/poorhouse-lane-v3/audio"
	"github.com/parkredding/poorhouse-lane-v3/dub"
)

type command struct {
	name  string
	help  string
	run   func(*env, []dub.Node) (dub.Node, error)
	arity int // -n means len(args) must be >= n
}

var commands = []command{
	{"set", "set <param> <value>", setCommand, 2},
	{"get", "get <param>", getCommand, 1},
	{"trigger", "start the siren", triggerCommand, 0},
	{"release", "stop the siren, starting the release tail", releaseCommand, 0},
	{"wave", "wave <sine|square|saw|triangle>", waveCommand, 1},
	{"pitchenv", "cycle pitch envelope none -> up -> down", pitchEnvCommand, 0},
	{"preset", "preset <name>", presetCommand, 1},
	{"presets", "list available presets", presetsCommand, 0},
	{"mode", "mode <synth|play>", modeCommand, 1},
	{"play", "start file playback", playCommand, 0},
	{"stop", "stop file playback", stopCommand, 0},
	{"next", "select the next sound file", nextCommand, 0},
	{"files", "list loaded sound files", filesCommand, 0},
	{"stats", "show transport statistics", statsCommand, 0},
	{"params", "list parameter names", paramsCommand, 0},
}

// The help entry is appended in init: listing helpCommand in the literal
// above would be an initialization cycle (helpCommand ranges over commands).
func init() {
	commands = append(commands, command{"help", "show this help", helpCommand, 0})
}

func setCommand(env *env, args []dub.Node) (dub.Node, error) {
	var key string
	if err := readArgs(args[:1], &key); err != nil {
		return nil, err
	}
	switch v := args[1].(type) {
	case dub.Float:
		return nil, env.engine.Set(key, float64(v))
	case dub.Int:
		return nil, env.engine.Set(key, int(v))
	case dub.Identifier:
		// Waveform and mode names are accepted where the parameter is an
		// index.
		if w, ok := audio.ParseWaveform(string(v)); ok {
			return nil, env.engine.Set(key, int(w))
		}
		return nil, fmt.Errorf("unsupported property value: %v", v)
	default:
		return nil, fmt.Errorf("unsupported property type: %v", v)
	}
}

func getCommand(env *env, args []dub.Node) (dub.Node, error) {
	var key string
	if err := readArgs(args, &key); err != nil {
		return nil, err
	}
	v, err := env.engine.Get(key)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case float32:
		return dub.Float(n), nil
	case int:
		return dub.Int(n), nil
	default:
		return dub.String(fmt.Sprint(v)), nil
	}
}

func triggerCommand(env *env, args []dub.Node) (dub.Node, error) {
	env.engine.Trigger()
	return nil, nil
}

func releaseCommand(env *env, args []dub.Node) (dub.Node, error) {
	env.engine.Release()
	return nil, nil
}

func waveCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	w, ok := audio.ParseWaveform(name)
	if !ok {
		return nil, fmt.Errorf("unknown waveform: %s", name)
	}
	env.engine.SetWaveform(w)
	return nil, nil
}

func pitchEnvCommand(env *env, args []dub.Node) (dub.Node, error) {
	mode := env.engine.CyclePitchEnvelope()
	return dub.String(mode.String()), nil
}

func presetCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	return nil, audio.LoadPreset(name, env.engine)
}

func presetsCommand(env *env, args []dub.Node) (dub.Node, error) {
	return dub.String(strings.Join(audio.PresetNames(), " ")), nil
}

func modeCommand(env *env, args []dub.Node) (dub.Node, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	switch name {
	case "synth":
		env.engine.SetMode(audio.ModeSynthesis)
	case "play":
		env.engine.SetMode(audio.ModeFilePlayback)
	default:
		return nil, fmt.Errorf("unknown mode: %s", name)
	}
	return nil, nil
}

func playCommand(env *env, args []dub.Node) (dub.Node, error) {
	player := env.engine.Player()
	if player.CurrentFile() == "" {
		if err := player.SelectFile(0); err != nil {
			return nil, err
		}
	}
	player.Play()
	return dub.String(player.CurrentFile()), nil
}

func stopCommand(env *env, args []dub.Node) (dub.Node, error) {
	env.engine.Player().Stop()
	return nil, nil
}

func nextCommand(env *env, args []dub.Node) (dub.Node, error) {
	player := env.engine.Player()
	if err := player.NextFile(); err != nil {
		return nil, err
	}
	return dub.String(player.CurrentFile()), nil
}

func filesCommand(env *env, args []dub.Node) (dub.Node, error) {
	files := env.engine.Player().Files()
	if len(files) == 0 {
		return nil, errors.New("no sound files loaded")
	}
	return dub.String(strings.Join(files, "\n")), nil
}

func statsCommand(env *env, args []dub.Node) (dub.Node, error) {
	stats := env.transport.Stats()
	return dub.String(fmt.Sprintf("buffers %d underruns %d cpu %.1f%%",
		stats.BuffersProcessed, stats.Underruns, stats.CPUPercent)), nil
}

func paramsCommand(env *env, args []dub.Node) (dub.Node, error) {
	keys := env.engine.Props().Keys()
	return dub.String(strings.Join(keys, " ")), nil
}

func helpCommand(env *env, args []dub.Node) (dub.Node, error) {
	var b strings.Builder
	for _, cmd := range commands {
		fmt.Fprintf(&b, "%-10s %s\n", cmd.name, cmd.help)
	}
	return dub.String(strings.TrimRight(b.String(), "\n")), nil
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *float64:
			switch n := arg.(type) {
			case dub.Float:
				*p = float64(n)
			case dub.Int:
				*p = float64(n)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		case *int:
			n, ok := arg.(dub.Int)
			if !ok {
				return fmt.Errorf("argument error: expected an integer")
			}
			*p = int(n)
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
