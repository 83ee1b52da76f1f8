package restyutil

import (
	"log/slog"
	"os"
	"path/filepath"
)

// FilesystemOutput persists raw HTTP exchanges (or any fetched markup) to a
// directory for offline inspection, e.g. when the portal layout changes.
type FilesystemOutput struct {
	directory string
}

func NewFilesystemOutput(dir string) FilesystemOutput {
	err := os.MkdirAll(dir, 0777)
	if err != nil {
		panic(err)
	}
	return FilesystemOutput{directory: dir}
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
