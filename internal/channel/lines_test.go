package channel

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func readAll(t *testing.T, lr *lineReader) (lines []string, skipped int) {
	t.Helper()
	for {
		line, err := lr.Next()
		switch {
		case err == nil:
			lines = append(lines, line)
		case errors.Is(err, errLineTooLong):
			skipped++
		case errors.Is(err, io.EOF):
			return lines, skipped
		default:
			t.Fatalf("Next() error = %v", err)
		}
	}
}

func TestLineReader(t *testing.T) {
	long := strings.Repeat("x", 100)

	tests := []struct {
		name    string
		input   string
		want    []string
		skipped int
	}{
		{"lines", "1,False\n0,True\n", []string{"1,False", "0,True"}, 0},
		{"crlf kept for parser", "1,False\r\n", []string{"1,False\r"}, 0},
		{"unterminated tail", "1,False\n0,True", []string{"1,False", "0,True"}, 0},
		{"empty line", "\n1,False\n", []string{"", "1,False"}, 0},
		{"oversized line skipped", "1,False\n" + long + "\n0,False\n", []string{"1,False", "0,False"}, 1},
		{"oversized tail", "1,False\n" + long, []string{"1,False"}, 0},
		{"two oversized lines", long + "\n" + long + "\n0,True\n", []string{"0,True"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines, skipped := readAll(t, newLineReader(strings.NewReader(tt.input), 32))
			if strings.Join(lines, "|") != strings.Join(tt.want, "|") {
				t.Errorf("lines = %q, want %q", lines, tt.want)
			}
			if skipped != tt.skipped {
				t.Errorf("skipped = %d, want %d", skipped, tt.skipped)
			}
		})
	}
}
