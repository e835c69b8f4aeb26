//go:build integration

package itest

import (
	"errors"
	"os"
	"path/filepath"
)

// findRepoRoot walks up from the working directory to the module root,
// recognised by go.mod next to cmd/threadreel.
func findRepoRoot() (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for range 10 {
		_, modErr := os.Stat(filepath.Join(wd, "go.mod"))
		_, cmdErr := os.Stat(filepath.Join(wd, "cmd", "threadreel"))
		if modErr == nil && cmdErr == nil {
			return wd, nil
		}
		parent := filepath.Dir(wd)
		if parent == wd {
			break
		}
		wd = parent
	}
	return "", errors.New("could not locate module root")
}
