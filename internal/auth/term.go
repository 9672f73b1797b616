package auth

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// TermPrompter reads passwords from a terminal without echo.
type TermPrompter struct {
	In  *os.File
	Out io.Writer
}

func (tp TermPrompter) Prompt(msg string) (string, error) {
	fmt.Fprint(tp.Out, msg)
	b, err := term.ReadPassword(int(tp.In.Fd()))
	fmt.Fprintln(tp.Out)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// NewPrompter picks the terminal prompter when in is a TTY.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if term.IsTerminal(int(in.Fd())) {
		return TermPrompter{In: in, Out: out}
	}
	return NewLinePrompter(in, out)
}
