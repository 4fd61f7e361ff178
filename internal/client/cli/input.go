package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when the user answers a prompt with a blank line.
var ErrEmptyInput = errors.New("input must not be empty")

// readPassword reads from the terminal without echo. Replaced in tests.
var readPassword = term.ReadPassword

// GetSimpleText writes "prompt: " to w and reads one line from reader.
// Surrounding whitespace is trimmed and a blank answer yields ErrEmptyInput.
// A final line without a newline is accepted.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	fmt.Fprintf(w, "%s: ", prompt)

	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return "", ErrEmptyInput
	}
	return line, nil
}

// GetPassword reads a password from stdin with echo disabled. The caller owns
// the returned slice and should wipe it with common.WipeByteArray.
func GetPassword(prompt string, w io.Writer) ([]byte, error) {
	fmt.Fprintf(w, "%s: ", prompt)

	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	if len(pw) == 0 {
		return nil, ErrEmptyInput
	}
	return pw, nil
}
