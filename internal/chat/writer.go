package chat

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

func writeLine(w io.Writer, line string) error {
	if _, err := io.WriteString(w, line+"\n"); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ReadLine returns the next line from r without its "\n" or "\r\n" ending.
// Lines have no length limit: the protocol carries no framing beyond the
// newline. An unterminated final line is returned before io.EOF.
func ReadLine(r *bufio.Reader) (string, error) {
	raw, err := r.ReadString('\n')
	switch {
	case err == nil, errors.Is(err, io.EOF) && raw != "":
		return strings.TrimSuffix(strings.TrimSuffix(raw, "\n"), "\r"), nil
	case errors.Is(err, io.EOF):
		return "", io.EOF
	default:
		return "", fmt.Errorf("read: %w", err)
	}
}
