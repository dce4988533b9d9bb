package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	createTableRe = regexp.MustCompile(`(?i)CREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?([a-z0-9_."]+)`)
	dropTableRe   = regexp.MustCompile(`(?i)DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?([a-z0-9_."]+)`)
)

const (
	markerUp             = "-- +goose Up"
	markerDown           = "-- +goose Down"
	markerStatementBegin = "-- +goose StatementBegin"
	markerStatementEnd   = "-- +goose StatementEnd"
)

// ValidateDir checks every migration in dir: the filename carries a unique
// 14-digit version, the file has one Up section followed by one Down section,
// StatementBegin/End blocks are closed inside their section, and Down drops
// every table that Up creates.
func ValidateDir(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	versions := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		if prev, ok := versions[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		versions[m[1]] = name

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}
		if err := checkMigration(string(raw)); err != nil {
			return fmt.Errorf("migration %q: %w", name, err)
		}
	}

	if len(versions) == 0 {
		return fmt.Errorf("no migrations found in %q", dir)
	}
	return nil
}

// checkMigration splits a goose file into its Up and Down halves and checks
// their structure.
func checkMigration(content string) error {
	var (
		up, down  []string
		section   *[]string
		seenUp    bool
		seenDown  bool
		openBlock bool
	)
	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		switch trimmed {
		case markerUp:
			if seenUp || seenDown {
				return fmt.Errorf("line %d: unexpected %q", i+1, markerUp)
			}
			seenUp, section = true, &up
			continue
		case markerDown:
			if !seenUp || seenDown {
				return fmt.Errorf("line %d: %q must follow a single %q", i+1, markerDown, markerUp)
			}
			if openBlock {
				return fmt.Errorf("line %d: up section ends inside a statement block", i+1)
			}
			seenDown, section = true, &down
			continue
		case markerStatementBegin:
			if section == nil || openBlock {
				return fmt.Errorf("line %d: unexpected %q", i+1, markerStatementBegin)
			}
			openBlock = true
			continue
		case markerStatementEnd:
			if !openBlock {
				return fmt.Errorf("line %d: %q without a StatementBegin", i+1, markerStatementEnd)
			}
			openBlock = false
			continue
		}
		if section != nil {
			*section = append(*section, line)
		}
	}

	if !seenUp {
		return fmt.Errorf("missing %q", markerUp)
	}
	if !seenDown {
		return fmt.Errorf("missing %q", markerDown)
	}
	if openBlock {
		return fmt.Errorf("down section ends inside a statement block")
	}

	created := tableNames(createTableRe, up)
	dropped := map[string]bool{}
	for _, name := range tableNames(dropTableRe, down) {
		dropped[name] = true
	}
	var missing []string
	for _, name := range created {
		if !dropped[name] {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("down section does not drop %s", strings.Join(missing, ", "))
	}
	return nil
}

func tableNames(re *regexp.Regexp, lines []string) []string {
	var names []string
	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		for _, m := range re.FindAllStringSubmatch(line, -1) {
			names = append(names, strings.ToLower(strings.Trim(m[1], `"`)))
		}
	}
	return names
}
