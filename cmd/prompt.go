// Copyright © 2026 The panelctl authors

package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/ssh/terminal"
)

type prompter struct {
	in         *bufio.Reader
	out        io.Writer
	readSecret func() ([]byte, error)
}

// newPrompter reads answers from in. Secrets are read without echo when in
// is a terminal.
func newPrompter(in io.Reader, out io.Writer) *prompter {
	p := &prompter{in: bufio.NewReader(in), out: out}

	if f, ok := in.(*os.File); ok && terminal.IsTerminal(int(f.Fd())) {
		p.readSecret = func() ([]byte, error) { return terminal.ReadPassword(int(f.Fd())) }
	} else {
		p.readSecret = func() ([]byte, error) {
			line, err := p.line()
			return []byte(line), err
		}
	}
	return p
}

// line reads one line without its line ending. Surrounding spaces are kept.
func (p *prompter) line() (string, error) {
	s, err := p.in.ReadString('\n')
	if err == io.EOF {
		err = nil
	}
	return strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r"), err
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	return p.line()
}

func (p *prompter) secret(label string) (string, error) {
	fmt.Fprint(p.out, label)
	b, err := p.readSecret()
	fmt.Fprintln(p.out)
	return string(b), err
}
