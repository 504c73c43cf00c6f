package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"video-frame-analyzer/domain/tool"
)

// OutputWriter allows capturing output in tests
type OutputWriter interface {
	Write(p []byte) (n int, err error)
}

// DefaultOutput is the default output writer for commands
var DefaultOutput OutputWriter = os.Stdout

// ErrToolFailed is returned after a failed result has been printed as JSON
var ErrToolFailed = errors.New("tool call failed")

// writeResult prints a tool result. Human output prints the report, or
// returns the failure as the command error.
func writeResult(out io.Writer, r tool.Result, jsonOut bool) error {
	if jsonOut {
		if err := writeJSON(out, r); err != nil {
			return err
		}
		if !r.OK() {
			return ErrToolFailed
		}
		return nil
	}

	if !r.OK() {
		return fmt.Errorf("%s: %s", r.Kind, r.ErrorMessage)
	}

	fmt.Fprintln(out, r.Report)
	if r.ImagePath != "" {
		fmt.Fprintf(out, "Image: %s\n", r.ImagePath)
	}
	return nil
}

func writeJSON(out io.Writer, v interface{}) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode output: %w", err)
	}
	return nil
}
