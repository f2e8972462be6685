package ingest

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Walk lists the CSV files under root in lexical order. A directory whose
// first file is named sampleFile is skipped entirely; pass "" to disable.
func Walk(root, sampleFile string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return fmt.Errorf("failed to read directory %s: %w", path, err)
		}

		var names []string
		for _, e := range entries {
			if !e.IsDir() {
				names = append(names, e.Name())
			}
		}
		if len(names) == 0 {
			return nil
		}
		sort.Strings(names)
		if sampleFile != "" && names[0] == sampleFile {
			return nil
		}

		for _, name := range names {
			if strings.EqualFold(filepath.Ext(name), ".csv") {
				files = append(files, filepath.Join(path, name))
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	return files, nil
}
