package channel

import (
	"bufio"
	"errors"
	"io"
)

// MaxLineLength bounds a status line. Longer lines are discarded whole and
// reading continues with the next line.
const MaxLineLength = 64 * 1024

// errLineTooLong reports a line that was discarded for exceeding the limit.
var errLineTooLong = errors.New("channel: status line too long")

// lineReader splits a stream into newline-terminated lines.
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(r io.Reader, max int) *lineReader {
	return &lineReader{r: bufio.NewReaderSize(r, max)}
}

// Next returns the next line without its newline. An oversized line is
// consumed through its newline and reported as errLineTooLong; the reader
// stays usable. A final unterminated line is returned before io.EOF.
func (lr *lineReader) Next() (string, error) {
	line, err := lr.r.ReadSlice('\n')
	switch {
	case err == nil:
		return string(line[:len(line)-1]), nil
	case errors.Is(err, bufio.ErrBufferFull):
		if err := lr.discard(); err != nil {
			return "", err
		}
		return "", errLineTooLong
	case errors.Is(err, io.EOF) && len(line) > 0:
		return string(line), nil
	default:
		return "", err
	}
}

// discard drops input through the next newline.
func (lr *lineReader) discard() error {
	for {
		_, err := lr.r.ReadSlice('\n')
		if !errors.Is(err, bufio.ErrBufferFull) {
			return err
		}
	}
}
