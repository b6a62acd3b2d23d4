// Package jsonutil holds the JSON output helpers of the traceview CLI.
package jsonutil

import (
	"encoding/json"
	"fmt"
	"io"
)

// Fprint writes v to w as indented JSON followed by a newline.
func Fprint(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling %T: %w", v, err)
	}
	b = append(b, '\n')
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("writing json: %w", err)
	}
	return nil
}
