package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// readPassword is replaced in tests so nothing touches the terminal.
var readPassword = term.ReadPassword

// readLine returns the next trimmed line. A final line without a newline
// still counts; only an empty read at EOF is an error.
func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetSimpleText shows prompt followed by a "> " marker and reads one line.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprintf(w, "%s\n> ", prompt); err != nil {
		return "", err
	}
	return readLine(reader)
}

// Choose lists options as a numbered menu. The answer may be an option's
// number or free text; a number out of range is returned as typed.
func Choose(reader *bufio.Reader, prompt string, options []string, w io.Writer) (string, error) {
	var sb strings.Builder
	sb.WriteString(prompt)
	for i, o := range options {
		fmt.Fprintf(&sb, "\n  %d) %s", i+1, o)
	}

	answer, err := GetSimpleText(reader, sb.String(), w)
	if err != nil {
		return "", err
	}
	if n, convErr := strconv.Atoi(answer); convErr == nil && n >= 1 && n <= len(options) {
		return options[n-1], nil
	}
	return answer, nil
}

// GetSecret reads a value from the terminal without echo. Callers wipe the
// returned slice once it has been used.
func GetSecret(prompt string, w io.Writer) ([]byte, error) {
	if _, err := fmt.Fprintf(w, "%s: ", prompt); err != nil {
		return nil, err
	}
	secret, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return secret, err
}

// Confirm asks a yes/no question defaulting to no.
func Confirm(reader *bufio.Reader, question string, w io.Writer) bool {
	answer, err := GetSimpleText(reader, question+" [y/N]", w)
	if err != nil {
		return false
	}
	answer = strings.ToLower(answer)
	return answer == "y" || answer == "yes"
}
