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

// readPassword and isTerminal are seams for the terminal helpers.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

// ErrPasswordMismatch is returned when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// promptPassword reads a new password. On a terminal the password is read
// twice without echo; otherwise a single line is taken from in.
func promptPassword(in io.Reader, w io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if in != os.Stdin || !isTerminal(fd) {
		line, err := bufio.NewReader(in).ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	first, err := readHidden(fd, w, "New password: ")
	if err != nil {
		return "", err
	}
	second, err := readHidden(fd, w, "Repeat password: ")
	if err != nil {
		return "", err
	}
	if first != second {
		return "", ErrPasswordMismatch
	}
	return first, nil
}

func readHidden(fd int, w io.Writer, prompt string) (string, error) {
	if _, err := fmt.Fprint(w, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(fd)
	_, _ = fmt.Fprintln(w)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}
