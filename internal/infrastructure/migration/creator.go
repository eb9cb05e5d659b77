package migration

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/template"
	"time"
)

var stubTemplate = template.Must(template.New("migration").Parse(
	`-- {{.Version}}_{{.Name}} ({{.Direction}}, {{.Dialect}})
-- Created: {{.Created}}

`))

// MigrationFiles describes a generated migration: one up/down pair per dialect
type MigrationFiles struct {
	Version string
	Name    string
	Paths   []string
}

type stubData struct {
	Version   string
	Name      string
	Direction string
	Dialect   string
	Created   string
}

// CreateMigration writes empty up and down files for every dialect under
// root (typically internal/infrastructure/migration/sql). The version is one
// past the highest existing version across dialects.
func CreateMigration(root, name string, now time.Time) (*MigrationFiles, error) {
	slug := sanitizeName(name)
	if slug == "" {
		return nil, fmt.Errorf("migration name %q has no usable characters", name)
	}

	next, err := nextVersion(root)
	if err != nil {
		return nil, err
	}
	out := &MigrationFiles{Version: fmt.Sprintf("%06d", next), Name: slug}

	for _, dialect := range Drivers() {
		dir := filepath.Join(root, dialect)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
		for _, direction := range []string{"up", "down"} {
			path := filepath.Join(dir, fmt.Sprintf("%s_%s.%s.sql", out.Version, slug, direction))
			if err := writeStub(path, stubData{
				Version:   out.Version,
				Name:      slug,
				Direction: direction,
				Dialect:   dialect,
				Created:   now.UTC().Format(time.RFC3339),
			}); err != nil {
				for _, p := range out.Paths {
					_ = os.Remove(p)
				}
				return nil, err
			}
			out.Paths = append(out.Paths, path)
		}
	}
	return out, nil
}

func writeStub(path string, data stubData) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()
	if err := stubTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func nextVersion(root string) (int, error) {
	highest := 0
	for _, dialect := range Drivers() {
		entries, err := os.ReadDir(filepath.Join(root, dialect))
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read migrations: %w", err)
		}
		for _, e := range entries {
			prefix, _, ok := strings.Cut(e.Name(), "_")
			if !ok {
				continue
			}
			if v, err := strconv.Atoi(prefix); err == nil && v > highest {
				highest = v
			}
		}
	}
	return highest + 1, nil
}

// sanitizeName lowercases name and collapses separators into single
// underscores, dropping everything else
func sanitizeName(name string) string {
	var b strings.Builder
	pendingSep := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			pendingSep = true
		}
	}
	return b.String()
}
