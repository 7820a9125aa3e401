package reminder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/amonks/taskpad/task"
)

// Environment variables passed to reminder commands.
const (
	EnvTaskID        = "TASKPAD_TASK_ID"
	EnvTaskName      = "TASKPAD_TASK_NAME"
	EnvTaskDeadline  = "TASKPAD_TASK_DEADLINE"
	EnvTaskRemaining = "TASKPAD_TASK_REMAINING"
)

// CommandNotifier runs a user-configured script for each reminder, e.g. to
// hand off to notify-send or osascript.
//
// If the script starts with a shebang (#!), that interpreter is used.
// Otherwise, the script is run with /bin/bash. The script is fed on stdin.
type CommandNotifier struct {
	Script string
	Dir    string
	Stdout io.Writer
	Stderr io.Writer
}

// Notify runs the script. A missing interpreter is reported as ErrUnavailable.
func (n CommandNotifier) Notify(ctx context.Context, t task.Task, remaining time.Duration) error {
	interpreter, body, err := splitShebang(n.Script)
	if err != nil {
		return err
	}
	if interpreter == nil {
		return ErrUnavailable
	}

	deadline := ""
	if t.Deadline != nil {
		deadline = t.Deadline.Format(time.RFC3339)
	}

	cmd := exec.CommandContext(ctx, interpreter[0], interpreter[1:]...)
	cmd.Dir = n.Dir
	cmd.Stdin = strings.NewReader(body)
	cmd.Env = append(os.Environ(),
		EnvTaskID+"="+t.ID,
		EnvTaskName+"="+t.Name,
		EnvTaskDeadline+"="+deadline,
		EnvTaskRemaining+"="+remaining.Truncate(time.Second).String(),
	)
	var stderr bytes.Buffer
	cmd.Stdout = n.Stdout
	cmd.Stderr = &stderr
	if n.Stderr != nil {
		cmd.Stderr = io.MultiWriter(n.Stderr, &stderr)
	}

	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %w", ErrUnavailable, err)
		}
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("reminder command: %w: %s", err, msg)
		}
		return fmt.Errorf("reminder command: %w", err)
	}
	return nil
}

// splitShebang returns the interpreter argv and script body. A blank script
// yields a nil interpreter.
func splitShebang(script string) ([]string, string, error) {
	script = strings.TrimSpace(script)
	if script == "" {
		return nil, "", nil
	}

	interpreter := "/bin/bash"
	body := script
	if strings.HasPrefix(script, "#!") {
		lines := strings.SplitN(script, "\n", 2)
		interpreter = strings.TrimSpace(strings.TrimPrefix(lines[0], "#!"))
		body = ""
		if len(lines) > 1 {
			body = lines[1]
		}
	}

	// e.g. "/usr/bin/env python3" or "/bin/bash -e"
	parts := strings.Fields(interpreter)
	if len(parts) == 0 {
		return nil, "", fmt.Errorf("empty interpreter in shebang")
	}
	return parts, body, nil
}
