package interp

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"

	"github.com/cwbudde/go-earl/internal/lexer"
)

// runShell executes script through the system shell, synchronously. A
// non-zero exit is a typed Fatal error when error-on-bash-fail is set;
// otherwise it is downgraded to a stderr warning and execution continues
// with Unit.
func (in *Interpreter) runShell(pos lexer.Position, script string) Value {
	if in.Config.ShowBash {
		fmt.Fprintf(os.Stderr, "+ %s\n", script)
	}
	cmd := exec.Command("/bin/sh", "-c", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Stdin = os.Stdin
	err := cmd.Run()
	in.Stdout.Write(stdout.Bytes())
	if err != nil {
		if in.Config.ErrorOnBashFail {
			return NewError(pos, KindFatal, "shell command failed: %s: %s", err.Error(), stderr.String())
		}
		if !in.Config.SuppressWarnings {
			fmt.Fprintf(os.Stderr, "warning: shell command failed: %s: %s\n", err.Error(), stderr.String())
		}
		return theUnit
	}
	return theUnit
}

// runShellOutput is the `__internal_unix_system_woutput__` variant that
// captures stdout as a Str instead of streaming it.
func (in *Interpreter) runShellOutput(pos lexer.Position, script string) (Value, *RuntimeError) {
	if in.Config.ShowBash {
		fmt.Fprintf(os.Stderr, "+ %s\n", script)
	}
	cmd := exec.Command("/bin/sh", "-c", script)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	if err != nil {
		if in.Config.ErrorOnBashFail {
			return nil, NewError(pos, KindFatal, "shell command failed: %s: %s", err.Error(), stderr.String())
		}
		if !in.Config.SuppressWarnings {
			fmt.Fprintf(os.Stderr, "warning: shell command failed: %s: %s\n", err.Error(), stderr.String())
		}
	}
	return &Str{Value: stdout.String()}, nil
}
