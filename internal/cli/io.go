package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// openInput returns the expression file at path, or stdin when path is empty
func openInput(cmd *cobra.Command, path string) (reader io.Reader, source string, cleanup func(), err error) {
	log := newLogger("input")
	if path == "" {
		log.Debug("reading expressions from stdin")
		return cmd.InOrStdin(), "stdin", func() {}, nil
	}

	if err := validateFilePath(path); err != nil {
		return nil, "", nil, fmt.Errorf("invalid file path: %w", err)
	}
	cleanPath := filepath.Clean(path)

	// #nosec G304 - path is validated above
	file, err := os.Open(cleanPath)
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	cleanup = func() {
		if err := file.Close(); err != nil {
			log.Warn("failed to close file: %v", err)
		}
	}
	log.Debug("reading expressions from %s", cleanPath)
	return file, cleanPath, cleanup, nil
}

// writeOutput prints output, or saves it when outputFile is set
func writeOutput(cmd *cobra.Command, output []byte, outputFile string) error {
	if outputFile == "" {
		_, err := cmd.OutOrStdout().Write(output)
		return err
	}
	if err := writeOutputBytesToFile(output, outputFile); err != nil {
		return fmt.Errorf("failed to write output to file: %w", err)
	}
	newLogger("output").Info("output saved to %s", outputFile)
	return nil
}

func validateFilePath(path string) error {
	if path == "" {
		return fmt.Errorf("empty file path")
	}

	cleanPath := filepath.Clean(path)

	info, err := os.Stat(cleanPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file does not exist: %s", cleanPath)
		}
		return fmt.Errorf("cannot access file: %w", err)
	}

	if info.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", cleanPath)
	}

	return nil
}

func writeOutputBytesToFile(output []byte, filePath string) error {
	cleanPath := filepath.Clean(filePath)
	if dir := filepath.Dir(cleanPath); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	// #nosec G304 - path comes from the user's own flag
	file, err := os.Create(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			newLogger("output").Warn("failed to close output file: %v", closeErr)
		}
	}()

	if _, err := file.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	// Sync to ensure data is written
	if err := file.Sync(); err != nil {
		return fmt.Errorf("failed to sync output file: %w", err)
	}

	return nil
}
