package dub

import (
	"reflect"
	"testing"
)

func TestParse(t *testing.T) {
	type test struct {
		input  string
		expect Command
	}
	tests := []test{
		{
			input:  "trigger",
			expect: Command{Name: "trigger"},
		},
		{
			input: "set delay.feedback 0.5",
			expect: Command{
				Name: "set",
				Args: []Node{Identifier("delay.feedback"), Float(0.5)},
			},
		},
		{
			input: "set osc.freq 440",
			expect: Command{
				Name: "set",
				Args: []Node{Identifier("osc.freq"), Int(440)},
			},
		},
		{
			input: "wave square",
			expect: Command{
				Name: "wave",
				Args: []Node{Identifier("square")},
			},
		},
		{
			input: "load \"sounds/horn.wav\"",
			expect: Command{
				Name: "load",
				Args: []Node{String("sounds/horn.wav")},
			},
		},
	}

	for _, test := range tests {
		cmd, err := Parse(test.input)
		if err != nil {
			t.Errorf("Parse(%q): %v", test.input, err)
			continue
		}
		if !reflect.DeepEqual(cmd, test.expect) {
			t.Errorf("Parse(%q): want %#v, got %#v", test.input, test.expect, cmd)
		}
	}
}

func TestParseErrors(t *testing.T) {
	inputs := []string{
		"",
		"440 set",
		"set $x 1",
	}
	for _, input := range inputs {
		if _, err := Parse(input); err == nil {
			t.Errorf("Parse(%q): expected error", input)
		}
	}
}
