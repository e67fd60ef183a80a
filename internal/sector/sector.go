// Package sector maps tickers to sector labels for cohort grouping.
package sector

import (
	"os"
	"strings"

	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/tradefolio/analytics/pkg/errors"
)

// Table is a static ticker-to-sector mapping loaded from a YAML file.
// Lookups are case-insensitive on the ticker.
type Table struct {
	sectors map[string]string
}

// tableFile is the on-disk YAML shape:
//
//	sectors:
//	  AAPL: Technology
//	  XOM: Energy
type tableFile struct {
	Sectors map[string]string `yaml:"sectors"`
}

// NewTable builds a Table from an in-memory mapping.
func NewTable(sectors map[string]string) *Table {
	normalized := make(map[string]string, len(sectors))

	for ticker, name := range sectors {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		normalized[strings.ToUpper(strings.TrimSpace(ticker))] = name
	}

	return &Table{sectors: normalized}
}

// LoadTable reads a sector table from a YAML file.
func LoadTable(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSectorTableNotFound, "failed to read sector table", err)
	}

	var file tableFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSectorTableInvalid, "failed to parse sector table", err)
	}

	return NewTable(file.Sectors), nil
}

// Sector returns the sector for the ticker, or None when unmapped.
func (t *Table) Sector(ticker string) optional.Option[string] {
	name, ok := t.sectors[strings.ToUpper(strings.TrimSpace(ticker))]
	if !ok {
		return optional.None[string]()
	}

	return optional.Some(name)
}

// Len reports how many tickers the table maps.
func (t *Table) Len() int {
	return len(t.sectors)
}
