/*
Package cmds holds the command implementations of the CLI. Every command is a
struct which carries its settings, validates them, and executes. The cobra
layer in package cmd only binds the flags and environment to the structs.
*/
package cmds

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/lainio/err2/try"
)

var ErrInvalid = errors.New("invalid command, check arguments")

// Result is the printable result of a command.
type Result interface {
	JSON() ([]byte, error)
}

// Command is a validated and executable command.
type Command interface {
	Validate() error
	Exec(w io.Writer) (r Result, err error)
}

// JSONResult wraps any value as a Result.
type JSONResult struct {
	Value any
}

func (r JSONResult) JSON() ([]byte, error) {
	return json.MarshalIndent(r.Value, "", "  ")
}

// PrintResult writes the result's JSON to w. Nil results are skipped.
func PrintResult(w io.Writer, r Result) error {
	if r == nil {
		return nil
	}
	data, err := r.JSON()
	if err != nil {
		return err
	}
	Fprintln(w, string(data))
	return nil
}

// ValidateTime checks that the time is in HH:MM[:SS] format.
func ValidateTime(t string) error {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if _, err := time.Parse(layout, t); err == nil {
			return nil
		}
	}
	return fmt.Errorf("invalid time %q, use HH:MM[:SS]", t)
}

// ParseLoggingArgs parses the logging startup arguments to the glog flags,
// e.g. "-logtostderr=true -v=2".
func ParseLoggingArgs(s string) {
	args := make([]string, 1, 12)
	args[0] = os.Args[0]
	args = append(args, strings.Fields(s)...)
	orgArgs := os.Args
	os.Args = args
	flag.Parse()
	os.Args = orgArgs
}

// Fprintln is fmt.Fprintln but it allows writer to be nil. Note! it throws an
// error.
func Fprintln(w io.Writer, a ...any) {
	if w != nil {
		try.To1(fmt.Fprintln(w, a...))
	}
}

// Fprintf is fmt.Fprintf but it allows writer to be nil. Note! it throws an
// error.
func Fprintf(w io.Writer, format string, a ...any) {
	if w != nil {
		try.To1(fmt.Fprintf(w, format, a...))
	}
}

// Fprint is fmt.Fprint but it allows writer to be nil. Note! it throws an
// error.
func Fprint(w io.Writer, a ...any) {
	if w != nil {
		try.To1(fmt.Fprint(w, a...))
	}
}

// Progress prints dots to w until the returned channel is closed.
func Progress(w io.Writer) chan<- struct{} {
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case <-time.After(300 * time.Millisecond):
				if w != nil {
					_, _ = fmt.Fprint(w, ".")
				}
			}
		}
	}()
	return done
}
