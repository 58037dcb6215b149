package main

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// loadEnvFiles applies dir/shared.env then dir/<envName>.env. A missing
// shared.env is tolerated; the named file must exist.
func loadEnvFiles(dir, envName string) error {
	base := filepath.Clean(dir)
	if err := loadEnvFile(filepath.Join(base, "shared.env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return loadEnvFile(filepath.Join(base, fmt.Sprintf("%s.env", envName)))
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if err := os.Setenv(key, value); err != nil {
			return err
		}
	}
	return scanner.Err()
}
