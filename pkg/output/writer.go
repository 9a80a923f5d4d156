package output

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

type WriteOptions struct {
	// Stdout receives content when path is "-". Defaults to os.Stdout.
	Stdout io.Writer
}

// Write writes content to path, or to stdout when path is "-". Content is
// terminated with a single newline. Existing files are overwritten.
func Write(path string, content []byte, opts WriteOptions) error {
	if !strings.HasSuffix(string(content), "\n") {
		content = append(content, '\n')
	}

	// stdout special-case
	if path == "-" || path == "" {
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := w.Write(content); err != nil {
			return fmt.Errorf("failed to write to stdout: %w", err)
		}
		return nil
	}

	// Ensure output directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}

	if fi, err := os.Stat(path); err == nil && fi.Mode().IsRegular() {
		log.Warn().Str("path", path).Msg("overwriting existing file")
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		return fmt.Errorf("failed to write output to %s: %w", path, err)
	}
	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("output written")
	return nil
}
