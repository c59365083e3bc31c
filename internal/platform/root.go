package platform

import (
	"fmt"
	"os"
	"path/filepath"
)

// SeedNames are the fixture names FindSeed looks for, in order.
var SeedNames = []string{"notebox.yaml", "notebox.yml", "notebox.json", ".notebox"}

// FindSeed recursively looks upwards from startDir for a seed fixture
// and returns its absolute path.
func FindSeed(startDir string) (string, error) {
	abs, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	dir := abs
	for {
		for _, name := range SeedNames {
			if hasFile(dir, name) {
				return filepath.Join(dir, name), nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no seed found from %s", startDir)
}

func hasFile(dir, name string) bool {
	path := filepath.Join(dir, name)
	_, err := os.Stat(path)
	return err == nil
}
