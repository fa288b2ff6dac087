// Package hook runs external commands when an analysis session transitions
// into a zone. Hooks receive the triggering result record as JSON on stdin
// and are bounded by a timeout.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a hook command's runtime.
const DefaultTimeout = 5 * time.Second

// Config is the stored per-hook execution configuration.
type Config struct {
	Args []string `json:"args,omitempty"`
	Env  []string `json:"env,omitempty"`
}

// Invocation is one hook run: the command, its stored config, and the
// result record that triggered it.
type Invocation struct {
	Command string
	Config  Config
	Payload any
}

// Executor runs hook commands with timeout support.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor. Non-positive timeouts fall back to
// DefaultTimeout.
func NewExecutor(timeout time.Duration) *Executor {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Executor{timeout: timeout}
}

// Run executes one hook invocation: the payload is marshaled to JSON and
// written to the command's stdin, extra environment entries are appended to
// the inherited environment, and a non-zero exit or timeout surfaces as an
// error with any stderr output attached.
func (e *Executor) Run(inv Invocation) error {
	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()

	payload, err := json.Marshal(inv.Payload)
	if err != nil {
		return fmt.Errorf("failed to marshal hook payload: %w", err)
	}

	cmd := exec.CommandContext(ctx, inv.Command, inv.Config.Args...)
	cmd.Stdin = bytes.NewReader(payload)
	if len(inv.Config.Env) > 0 {
		cmd.Env = append(os.Environ(), inv.Config.Env...)
	}

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("hook timeout after %s", e.timeout)
	}
	if err != nil {
		if stderr.Len() > 0 {
			return fmt.Errorf("hook failed: %w, stderr: %s", err, stderr.String())
		}
		return fmt.Errorf("hook failed: %w", err)
	}

	return nil
}
