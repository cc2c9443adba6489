package setup

import (
	"fmt"
	"os"
	"path/filepath"
)

// ArtifactFileMode keeps generated secrets readable by the owner only.
const ArtifactFileMode os.FileMode = 0o600

// WriteArtifacts writes every artifact into dir, replacing existing files.
// It returns the written paths in artifact order.
func WriteArtifacts(dir string, artifacts []Artifact) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	paths := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		path := filepath.Join(dir, a.Name)
		if err := os.WriteFile(path, a.Content, ArtifactFileMode); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", path, err)
		}
		// WriteFile keeps the mode of an existing file.
		if err := os.Chmod(path, ArtifactFileMode); err != nil {
			return paths, fmt.Errorf("failed to set permissions on %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
