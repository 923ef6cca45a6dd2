package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

const versionFormat = "20060102150405"

// Pair is a generated up/down migration file pair.
type Pair struct {
	Version  string
	Name     string
	UpPath   string
	DownPath string
}

// Create writes a skeleton up/down migration pair into dir. The version
// prefix is the current timestamp so files sort in creation order.
func Create(dir, name, description string) (*Pair, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create migrations directory: %w", err)
	}

	now := time.Now()
	base := now.Format(versionFormat) + "_" + sanitizeName(name)

	p := &Pair{
		Version:  now.Format(versionFormat),
		Name:     name,
		UpPath:   filepath.Join(dir, base+".up.sql"),
		DownPath: filepath.Join(dir, base+".down.sql"),
	}

	header := fmt.Sprintf("-- Migration: %s\n-- Created: %s\n", name, now.Format(time.RFC3339))
	up := header +
		fmt.Sprintf("-- Description: %s\n\n-- Write the UP migration SQL here\n\n", description)
	down := header +
		fmt.Sprintf("-- Description: rollback for %s\n\n-- Write the DOWN migration SQL here\n\n", description)

	if err := os.WriteFile(p.UpPath, []byte(up), 0o644); err != nil {
		return nil, fmt.Errorf("write up migration: %w", err)
	}
	if err := os.WriteFile(p.DownPath, []byte(down), 0o644); err != nil {
		_ = os.Remove(p.UpPath)
		return nil, fmt.Errorf("write down migration: %w", err)
	}

	return p, nil
}

// sanitizeName lowercases the name and squashes separator runs so it is
// safe inside a migration file name. Anything that is not a letter,
// digit or separator is dropped.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") {
				b.WriteByte('_')
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// ListMigrations returns the migration base names under dir, sorted by
// version prefix. Each pair is reported once via its up file.
func ListMigrations(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read migrations directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".up.sql") {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".up.sql"))
	}
	sort.Strings(names)
	return names, nil
}
