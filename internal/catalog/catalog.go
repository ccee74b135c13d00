// Package catalog loads the fixed list of recurring dates that seeds the
// store on every startup.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"announcebot/internal/domain"
)

//go:embed recurring_dates.yaml
var defaultYAML []byte

type file struct {
	Entries []domain.RecurringDate `yaml:"entries"`
}

// Default returns the embedded catalog.
func Default() ([]domain.RecurringDate, error) {
	return Parse(defaultYAML)
}

// Load reads a catalog from path, or returns the embedded one when path is empty.
func Load(path string) ([]domain.RecurringDate, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recurring catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML catalog.
func Parse(data []byte) ([]domain.RecurringDate, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode recurring catalog: %w", err)
	}
	for i, e := range f.Entries {
		if err := Validate(e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		f.Entries[i].SubjectName = strings.TrimSpace(e.SubjectName)
	}
	return f.Entries, nil
}

var daysInMonth = [13]int{0, 31, 29, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// Validate checks a single entry. February 29 is allowed.
func Validate(e domain.RecurringDate) error {
	if strings.TrimSpace(e.SubjectName) == "" {
		return fmt.Errorf("%w: empty subject", domain.ErrInvalidInput)
	}
	if !e.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrInvalidInput, e.Category)
	}
	m, d := e.Month(), e.Day()
	if m < 1 || m > 12 || d < 1 || d > daysInMonth[m] {
		return fmt.Errorf("%w: bad date %d", domain.ErrInvalidInput, e.Date)
	}
	return nil
}
