package artifact

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/futig/diabetes-api/internal/entity"
)

// Locator resolves artifact names against the container path first and the local base path second.
type Locator struct {
	ContainerPath string
	BasePath      string
}

func (l Locator) candidates(name string) []string {
	if filepath.IsAbs(name) {
		return []string{name}
	}

	var paths []string
	if l.ContainerPath != "" {
		paths = append(paths, filepath.Join(l.ContainerPath, name))
	}
	base := l.BasePath
	if base == "" {
		base = "."
	}
	return append(paths, filepath.Join(base, name))
}

// Resolve returns the first existing candidate path for name.
func (l Locator) Resolve(name string) (string, error) {
	paths := l.candidates(name)
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: %s (searched: %s)", entity.ErrArtifactNotFound, name, strings.Join(paths, ", "))
}
