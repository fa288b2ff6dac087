// Package main provides a desktop notification hook command. Bind it to a
// zone to get a notification whenever a session transitions into that zone.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Record is the triggering result record delivered on stdin.
type Record struct {
	Zone string  `json:"zone"`
	Area float64 `json:"area"`
}

// zoneMessages maps zones to human-readable notification text.
var zoneMessages = map[string]string{
	"not_detected":   "No hand detected",
	"too_far":        "Hand too far away",
	"good_distance":  "Hand at good distance",
	"too_close":      "Hand too close",
	"palm_too_large": "Palm fills the frame, move back",
	"error":          "Frame analysis error",
}

func main() {
	var rec Record
	if err := json.NewDecoder(os.Stdin).Decode(&rec); err != nil {
		fmt.Fprintf(os.Stderr, "failed to decode record: %v\n", err)
		os.Exit(1)
	}

	message, ok := zoneMessages[rec.Zone]
	if !ok {
		message = "Zone changed to " + rec.Zone
	}

	if err := notify("Mudra", message); err != nil {
		fmt.Fprintf(os.Stderr, "notification failed: %v\n", err)
		os.Exit(1)
	}
}

// notify sends a desktop notification using the platform's native tool.
func notify(title, message string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`display notification %q with title %q`, message, title)
		cmd = exec.Command("osascript", "-e", script)
	default:
		cmd = exec.Command("notify-send", title, message)
	}

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, string(output))
	}
	return nil
}
