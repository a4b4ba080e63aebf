// Package prompt asks the user for confirmation and field values on a terminal.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/dtroode/shoe-inventory/internal/model"
)

// isTerminal is a test seam for term.IsTerminal.
var isTerminal = term.IsTerminal

var _ model.Confirmer = (*Prompt)(nil)

// Prompt reads answers line by line from its input.
type Prompt struct {
	in          *bufio.Reader
	out         io.Writer
	interactive bool
	assumeYes   bool
}

// Option configures a Prompt.
type Option func(*Prompt)

// AssumeYes answers every confirmation with yes without asking.
func AssumeYes(yes bool) Option {
	return func(p *Prompt) { p.assumeYes = yes }
}

// New creates a prompt over in and out. Input is treated as interactive.
func New(in io.Reader, out io.Writer, opts ...Option) *Prompt {
	p := &Prompt{
		in:          bufio.NewReader(in),
		out:         out,
		interactive: true,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewStdio creates a prompt on stdin and stderr. When stdin is not a terminal
// confirmations are declined unless AssumeYes is set.
func NewStdio(opts ...Option) *Prompt {
	p := New(os.Stdin, os.Stderr, opts...)
	p.interactive = isTerminal(int(os.Stdin.Fd()))
	return p
}

// SetAssumeYes switches automatic confirmation on or off.
func (p *Prompt) SetAssumeYes(yes bool) {
	p.assumeYes = yes
}

// Interactive reports whether the prompt can ask questions.
func (p *Prompt) Interactive() bool {
	return p.interactive
}

// Confirm asks a yes/no question. Anything but y or yes is a no.
func (p *Prompt) Confirm(message string) bool {
	if p.assumeYes {
		return true
	}
	if !p.interactive {
		return false
	}

	answer, err := p.readLine(message + " [y/N]: ")
	if err != nil {
		return false
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Ask prints label and reads one line. An empty answer returns def.
func (p *Prompt) Ask(label, def string) (string, error) {
	text := label + ": "
	if def != "" {
		text = fmt.Sprintf("%s [%s]: ", label, def)
	}

	answer, err := p.readLine(text)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

func (p *Prompt) readLine(text string) (string, error) {
	if _, err := fmt.Fprint(p.out, text); err != nil {
		return "", err
	}

	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
