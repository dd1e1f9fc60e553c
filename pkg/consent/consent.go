// Package consent provides the ways devbox asks whether to install an item.
package consent

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jaspreet-dot-casa/devbox/pkg/installer"
	"github.com/jaspreet-dot-casa/devbox/pkg/ui"
)

// ErrInterrupted is returned when the user aborts a prompt with ctrl+c.
var ErrInterrupted = errors.New("interrupted")

// Auto answers yes to every prompt.
type Auto struct{}

// Confirm implements installer.ConsentProvider.
func (Auto) Confirm(context.Context, installer.Prompt) (bool, error) {
	return true, nil
}

// Reader asks on Out and reads one line per answer from In.
type Reader struct {
	In  io.Reader
	Out io.Writer

	buf *bufio.Reader
}

// NewReader creates a Reader.
func NewReader(in io.Reader, out io.Writer) *Reader {
	return &Reader{In: in, Out: out}
}

// Confirm implements installer.ConsentProvider. An unrecognised answer
// returns *installer.ConsentInputError so the caller can ask again.
func (r *Reader) Confirm(ctx context.Context, p installer.Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if r.buf == nil {
		r.buf = bufio.NewReader(r.In)
	}

	fmt.Fprintf(r.Out, "%s [y/n]: ", p.Question())

	line, err := r.buf.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		fmt.Fprintln(r.Out)
		return false, err
	}

	answer, ok := ParseAnswer(line)
	if !ok {
		fmt.Fprintln(r.Out, "Please answer y or n.")
		return false, &installer.ConsentInputError{Input: strings.TrimSpace(line)}
	}
	return answer, nil
}

// ParseAnswer interprets a typed answer. The second result is false when the
// input is neither yes nor no.
func ParseAnswer(input string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "y", "yes":
		return true, true
	case "n", "no":
		return false, true
	default:
		return false, false
	}
}

// ForTerminal returns a single-key dialog when in is a terminal and a line
// reader otherwise. interrupt is called if the user presses ctrl+c in the
// dialog.
func ForTerminal(in *os.File, out io.Writer, interrupt func()) installer.ConsentProvider {
	if ui.IsTerminal(in) {
		return &Keypress{In: in, Out: out, OnInterrupt: interrupt}
	}
	return NewReader(in, out)
}
