package dub

import "testing"

func TestLexer(t *testing.T) {
	type test struct {
		input  string
		expect []token
	}
	tests := []test{
		{
			input: "trigger",
			expect: []token{
				token{typ: typeIdentifier, text: "trigger"},
				token{typ: typeEOF},
			},
		},
		{
			input: "set delay.feedback 0.5",
			expect: []token{
				token{typ: typeIdentifier, text: "set"},
				token{typ: typeIdentifier, text: "delay.feedback"},
				token{typ: typeFloat, text: "0.5"},
				token{typ: typeEOF},
			},
		},
		{
			input: "set osc.freq 440",
			expect: []token{
				token{typ: typeIdentifier, text: "set"},
				token{typ: typeIdentifier, text: "osc.freq"},
				token{typ: typeInt, text: "440"},
				token{typ: typeEOF},
			},
		},
		{
			input: "load \"sounds/horn.wav\"",
			expect: []token{
				token{typ: typeIdentifier, text: "load"},
				token{typ: typeString, text: "\"sounds/horn.wav\""},
				token{typ: typeEOF},
			},
		},
		{
			input: "-1.5",
			expect: []token{
				token{typ: typeFloat, text: "-1.5"},
				token{typ: typeEOF},
			},
		},
		{
			input: ".5 -2",
			expect: []token{
				token{typ: typeFloat, text: ".5"},
				token{typ: typeInt, text: "-2"},
				token{typ: typeEOF},
			},
		},
	}

	for _, test := range tests {
		tokens, err := lex(test.input)
		if err != nil {
			t.Errorf("lex(%q): %v", test.input, err)
			continue
		}
		if len(tokens) != len(test.expect) {
			t.Errorf("lex(%q): want %d tokens, got %d: %v", test.input, len(test.expect), len(tokens), tokens)
			continue
		}
		for i, tok := range tokens {
			want := test.expect[i]
			if tok.typ != want.typ || tok.text != want.text {
				t.Errorf("lex(%q) token %d: want {%v %q}, got {%v %q}",
					test.input, i, want.typ, want.text, tok.typ, tok.text)
			}
		}
	}
}

func TestLexerErrors(t *testing.T) {
	inputs := []string{
		"set @freq 440",
		"\"unterminated",
		"1.2.3",
	}
	for _, input := range inputs {
		if _, err := lex(input); err == nil {
			t.Errorf("lex(%q): expected error", input)
		}
	}
}
