// Package auth implements the shared-secret gate in front of the tool.
package auth

import (
	"bufio"
	"crypto/subtle"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrNoSecret       = errors.New("auth: no password configured")
	ErrTooManyAttempt = errors.New("auth: too many failed attempts")
)

// Gate compares user input against a configured secret. The secret is
// either plain text or a bcrypt hash.
type Gate struct {
	secret []byte
	hashed bool
}

func NewGate(secret string) (*Gate, error) {
	if secret == "" {
		return nil, ErrNoSecret
	}
	return &Gate{secret: []byte(secret), hashed: isBcrypt(secret)}, nil
}

func isBcrypt(s string) bool {
	for _, p := range []string{"$2a$", "$2b$", "$2y$"} {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func (g *Gate) Check(input string) bool {
	if g.hashed {
		return bcrypt.CompareHashAndPassword(g.secret, []byte(input)) == nil
	}
	return subtle.ConstantTimeCompare(g.secret, []byte(input)) == 1
}

// Prompter reads one password attempt.
type Prompter interface {
	Prompt(msg string) (string, error)
}

// Unlock keeps prompting until the input matches or attempts run out.
func (g *Gate) Unlock(p Prompter, attempts int, rejected func(n int)) error {
	if attempts < 1 {
		attempts = 1
	}
	for n := 1; n <= attempts; n++ {
		input, err := p.Prompt("password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}
		if g.Check(input) {
			return nil
		}
		if rejected != nil {
			rejected(n)
		}
	}
	return ErrTooManyAttempt
}

// LinePrompter reads attempts line by line, for non-interactive input.
type LinePrompter struct {
	Out io.Writer
	in  *bufio.Reader
}

func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{Out: out, in: bufio.NewReader(in)}
}

func (lp *LinePrompter) Prompt(msg string) (string, error) {
	if lp.Out != nil {
		fmt.Fprint(lp.Out, msg)
	}
	line, err := lp.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
