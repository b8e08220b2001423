package report

import (
	"fmt"
	"os"
)

// AppendStepSummary appends the feedback document to the CI step summary
// file. An empty path means no summary sink is configured.
func AppendStepSummary(path, markdown string) error {
	if path == "" {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open step summary: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(markdown + "\n"); err != nil {
		return fmt.Errorf("append step summary: %w", err)
	}
	return nil
}
