// Package console implements the interactive views of the client: the
// dashboard, the stock entry form and the admin views. Controllers hold
// in-memory state only and re-fetch from the server after every mutation;
// nothing is patched locally.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Notifier surfaces blocking messages to the user.
type Notifier interface {
	Alert(message string)
	Info(message string)
}

// Confirmer asks a yes/no question and reports the answer. Declining must
// leave the pending action unexecuted.
type Confirmer interface {
	Confirm(prompt string) bool
}

// TerminalUI is the stdin/stdout implementation of Notifier and Confirmer.
type TerminalUI struct {
	In  io.Reader
	Out io.Writer
}

func (t *TerminalUI) Alert(message string) {
	fmt.Fprintf(t.Out, "! %s\n", message)
}

func (t *TerminalUI) Info(message string) {
	fmt.Fprintln(t.Out, message)
}

func (t *TerminalUI) Confirm(prompt string) bool {
	fmt.Fprintf(t.Out, "%s [y/N] ", prompt)
	reader := bufio.NewReader(t.In)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
