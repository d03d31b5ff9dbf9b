package helpers

import (
	"fmt"
	"os"
)

// WriteOutput delivers the finished document to the sink in one complete
// write. "-" means stdout; anything else is created as a file. Nothing is
// ever written before the pipeline has fully succeeded.
func WriteOutput(path string, document []byte) error {
	if path == "-" {
		if _, err := os.Stdout.Write(document); err != nil {
			return fmt.Errorf("failed to write credentials to stdout: %w", err)
		}
		return nil
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(document); err != nil {
		return fmt.Errorf("failed to write credentials to %s: %w", path, err)
	}
	return nil
}
