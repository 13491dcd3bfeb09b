// Package imestate decodes the status lines published by the input-method helper.
//
// Each line has the form "<inputMode>,<capsLockState>", for example "1,False".
package imestate

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned for lines that do not have exactly two fields.
var ErrMalformed = errors.New("malformed status line")

// InputMode is the keyboard input mode reported by the helper.
type InputMode int

const (
	// ModeUnknown means the helper reported something caretip does not
	// understand; the marker keeps its current color.
	ModeUnknown InputMode = iota
	ModeChinese
	ModeEnglish
)

func (m InputMode) String() string {
	switch m {
	case ModeChinese:
		return "chinese"
	case ModeEnglish:
		return "english"
	default:
		return "unknown"
	}
}

// Status is one decoded status line.
type Status struct {
	Mode     InputMode
	CapsLock bool
}

func (s Status) String() string {
	caps := "off"
	if s.CapsLock {
		caps = "on"
	}
	return fmt.Sprintf("mode=%s caps=%s", s.Mode, caps)
}

// ParseMode maps the first wire field to an InputMode.
func ParseMode(field string) InputMode {
	switch field {
	case "1":
		return ModeChinese
	case "0":
		return ModeEnglish
	default:
		return ModeUnknown
	}
}

// Parse decodes a single status line. Surrounding whitespace (including a
// trailing "\r") is trimmed from the line; individual fields are not trimmed.
func Parse(line string) (Status, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 2 {
		return Status{}, fmt.Errorf("%w: %d fields", ErrMalformed, len(fields))
	}
	return Status{
		Mode:     ParseMode(fields[0]),
		CapsLock: fields[1] == "True",
	}, nil
}

// Format encodes a status the way the helper writes it, without the newline.
func Format(s Status) string {
	mode := "2"
	switch s.Mode {
	case ModeChinese:
		mode = "1"
	case ModeEnglish:
		mode = "0"
	}
	caps := "False"
	if s.CapsLock {
		caps = "True"
	}
	return mode + "," + caps
}
