package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveOutputPath returns the path an artifact should be written to. With
// overwrite enabled it is simply dir/name. Otherwise existing files are left
// alone and " (N)" variants are probed until a free name is found, the way
// file managers handle duplicate downloads.
func ResolveOutputPath(dir, name string, overwrite bool) string {
	path := filepath.Join(dir, name)
	if overwrite {
		return path
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}

	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for n := 1; ; n++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s (%d)%s", stem, n, ext))
		if _, err := os.Stat(candidate); os.IsNotExist(err) {
			return candidate
		}
	}
}
