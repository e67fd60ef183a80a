package datasource

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/tradefolio/analytics/internal/types"
	"github.com/tradefolio/analytics/pkg/errors"
)

// Fixture is the YAML shape accepted by the ingest command: a dataset of
// positions and account transactions ready to be saved as a snapshot.
type Fixture struct {
	Positions    []types.Position           `yaml:"positions"`
	Transactions []types.AccountTransaction `yaml:"transactions"`
}

// ReadFixture parses a dataset fixture from a YAML file.
func ReadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDataNotFound, "failed to read fixture file", err)
	}

	var fixture Fixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "failed to parse fixture file", err)
	}

	return &fixture, nil
}
