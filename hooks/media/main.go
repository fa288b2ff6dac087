// Package main provides a media control hook command for macOS. It drives
// playback via AppleScript media key events; the action is selected by the
// hook's configured argument, so one binding can pause when the hand leaves
// the good band and another can resume when it returns.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
)

// Record is the triggering result record delivered on stdin.
type Record struct {
	Zone string  `json:"zone"`
	Area float64 `json:"area"`
}

// actionHandler defines a function type for handling specific actions.
type actionHandler func() error

// actionHandlers maps action arguments to their handler functions.
var actionHandlers = map[string]actionHandler{
	"play-pause":  mediaPlayPause,
	"next":        mediaNext,
	"prev":        mediaPrev,
	"volume-mute": volumeMute,
}

func main() {
	// The record is consumed even though only the action argument drives
	// behavior; a hook that ignores stdin would block the executor's write.
	var rec Record
	if err := json.NewDecoder(os.Stdin).Decode(&rec); err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode record: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: media <play-pause|next|prev|volume-mute>")
		os.Exit(1)
	}

	action := os.Args[1]
	handler, ok := actionHandlers[action]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown action: %s\n", action)
		os.Exit(1)
	}

	if err := handler(); err != nil {
		fmt.Fprintf(os.Stderr, "action %s failed: %v\n", action, err)
		os.Exit(1)
	}
}

// runAppleScript executes an AppleScript command and returns any error.
func runAppleScript(script string) error {
	cmd := exec.Command("osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}

// mediaPlayPause toggles media play/pause using the F8/Play-Pause media key.
func mediaPlayPause() error {
	script := `tell application "System Events"
	key code 100
end tell`
	return runAppleScript(script)
}

// mediaNext skips to the next track using the F9/Next media key.
func mediaNext() error {
	script := `tell application "System Events"
	key code 101
end tell`
	return runAppleScript(script)
}

// mediaPrev skips to the previous track using the F7/Previous media key.
func mediaPrev() error {
	script := `tell application "System Events"
	key code 98
end tell`
	return runAppleScript(script)
}

// volumeMute toggles the system mute state.
func volumeMute() error {
	script := `set volume output muted (not (output muted of (get volume settings)))`
	return runAppleScript(script)
}
