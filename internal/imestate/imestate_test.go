package imestate

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		line string
		want Status
	}{
		{"chinese caps off", "1,False", Status{Mode: ModeChinese}},
		{"english caps off", "0,False", Status{Mode: ModeEnglish}},
		{"english caps on", "0,True", Status{Mode: ModeEnglish, CapsLock: true}},
		{"chinese caps on", "1,True", Status{Mode: ModeChinese, CapsLock: true}},
		{"unknown mode", "2,False", Status{Mode: ModeUnknown}},
		{"trailing newline", "1,False\n", Status{Mode: ModeChinese}},
		{"crlf", "0,True\r\n", Status{Mode: ModeEnglish, CapsLock: true}},
		{"lowercase true is off", "0,true", Status{Mode: ModeEnglish}},
		{"inner space not trimmed", "1, True", Status{Mode: ModeChinese}},
		{"empty caps field", "1,", Status{Mode: ModeChinese}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.line)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.line, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.line, got, tt.want)
			}
		})
	}
}

func TestParseMalformed(t *testing.T) {
	for _, line := range []string{"", "1", "True", "1,True,extra", ",,", "\n"} {
		if _, err := Parse(line); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformed", line, err)
		}
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for _, s := range []Status{
		{Mode: ModeChinese},
		{Mode: ModeEnglish, CapsLock: true},
		{Mode: ModeUnknown, CapsLock: true},
	} {
		got, err := Parse(Format(s))
		if err != nil {
			t.Fatalf("Parse(Format(%v)) error = %v", s, err)
		}
		if got != s {
			t.Errorf("Parse(Format(%v)) = %v", s, got)
		}
	}
}

func TestStatusString(t *testing.T) {
	got := Status{Mode: ModeChinese, CapsLock: true}.String()
	if got != "mode=chinese caps=on" {
		t.Errorf("String() = %q", got)
	}
}
