package load

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"golang.org/x/mod/modfile"
)

// ImportPath returns the import path of the package in dir, derived from the
// nearest enclosing go.mod. It returns an empty path when dir is not inside a
// module.
func ImportPath(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("load: resolving %s: %w", dir, err)
	}
	for cur := abs; ; {
		buf, err := os.ReadFile(filepath.Join(cur, "go.mod"))
		switch {
		case err == nil:
			mod := modfile.ModulePath(buf)
			if mod == "" {
				return "", fmt.Errorf("load: no module directive in %s", filepath.Join(cur, "go.mod"))
			}
			rel, err := filepath.Rel(cur, abs)
			if err != nil {
				return "", err
			}
			if rel == "." {
				return mod, nil
			}
			return path.Join(mod, filepath.ToSlash(rel)), nil
		case !errors.Is(err, fs.ErrNotExist):
			return "", fmt.Errorf("load: reading go.mod: %w", err)
		}
		parent := filepath.Dir(cur)
		if parent == cur {
			return "", nil
		}
		cur = parent
	}
}
