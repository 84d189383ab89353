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

// readPassword is a test seam for term.ReadPassword.
// In tests you can replace it with a stub to avoid touching the terminal.
var readPassword = term.ReadPassword

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// GetToken prompts for the bearer credential and reads it from the user's
// terminal without echo. A newline is printed after the read to keep the
// UI tidy.
func GetToken(w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, "Paste token: "); err != nil {
		return "", err
	}
	raw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(raw)), nil
}

// GetInt reads an integer with a default used on empty input.
func GetInt(reader *bufio.Reader, prompt string, def int, w io.Writer) (int, error) {
	text, err := GetSimpleText(reader, fmt.Sprintf("%s [%d]", prompt, def), w)
	if err != nil {
		return 0, err
	}
	if text == "" {
		return def, nil
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", text)
	}
	return n, nil
}

// GetChoice reads one of the allowed values, defaulting on empty input.
func GetChoice(reader *bufio.Reader, prompt string, allowed []string, def string, w io.Writer) (string, error) {
	text, err := GetSimpleText(reader, fmt.Sprintf("%s (%s) [%s]", prompt, strings.Join(allowed, "/"), def), w)
	if err != nil {
		return "", err
	}
	if text == "" {
		return def, nil
	}
	for _, v := range allowed {
		if text == v {
			return v, nil
		}
	}
	return "", fmt.Errorf("unsupported value: %q", text)
}
