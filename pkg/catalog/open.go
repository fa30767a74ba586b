package catalog

import (
	"fmt"
	"os"

	"github.com/oolestudio/tamashi/pkg/adapters/loam"
	"github.com/oolestudio/tamashi/pkg/domain"
	"github.com/oolestudio/tamashi/pkg/ports"
)

// Open returns the catalog at path: the built-in tutorials when path is
// empty, a Markdown step directory when path is a directory, otherwise a YAML
// file.
func Open(path string, p domain.Persona, opts ...Option) (ports.Catalog, error) {
	if path == "" {
		return NewBuiltin(p), nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	if info.IsDir() {
		return loam.Open(path, loam.WithPersona(p))
	}
	return LoadFile(path, p, opts...)
}
