package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// loadDocument reads one JSON document from a file path, or from stdin
// when the path is "-".
func loadDocument(cmd *cobra.Command, path string) (any, error) {
	data, err := readInput(cmd, path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("reading %s", path), err)
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, WrapExitError(ExitCommandError, fmt.Sprintf("parsing %s", path), err)
	}
	return doc, nil
}

// loadInto reads and decodes JSON from a path into a wire type.
func loadInto(cmd *cobra.Command, path string, out any) error {
	data, err := readInput(cmd, path)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("reading %s", path), err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("parsing %s", path), err)
	}
	return nil
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	return os.ReadFile(path)
}
