package dataset

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ListFiles returns the names of the regular, non-hidden files in dir, sorted.
func ListFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list datasets: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Pick resolves a selected file name against the listing of dir.
// An empty name selects the first file, the way a dropdown defaults to its
// first option.
func Pick(dir, name string, files []string) (string, error) {
	if len(files) == 0 {
		return "", fmt.Errorf("no dataset files in %s", dir)
	}
	if name == "" {
		return filepath.Join(dir, files[0]), nil
	}
	base := filepath.Base(name)
	for _, f := range files {
		if f == base {
			return filepath.Join(dir, f), nil
		}
	}
	return "", fmt.Errorf("dataset %q not found in %s", name, dir)
}
