package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tradefolio/analytics/pkg/errors"
)

type ConfigTestSuite struct {
	suite.Suite
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) TestParseConfig() {
	config, err := ParseConfig(`
starting_balance: 25000
time_scale: YTD
data_path: /var/data/analytics.db
sector_table_path: sectors.yaml
output_path: out/metrics.yaml
listen_addr: ":9090"
`)
	suite.Require().NoError(err)
	suite.Equal(25000.0, config.StartingBalance)
	suite.Equal("YTD", config.TimeScale)
	suite.Equal("/var/data/analytics.db", config.DataPath)
	suite.Equal("sectors.yaml", config.SectorTablePath)
	suite.Equal("out/metrics.yaml", config.OutputPath)
	suite.Equal(":9090", config.ListenAddr)
}

func (suite *ConfigTestSuite) TestDefaultsFillUnsetFields() {
	config, err := ParseConfig("data_path: snapshot.db")
	suite.Require().NoError(err)
	suite.Equal("ALL", config.TimeScale)
	suite.Equal(":8080", config.ListenAddr)
	suite.Equal("metrics.yaml", config.OutputPath)
}

func (suite *ConfigTestSuite) TestInvalidTimeScaleRejected() {
	_, err := ParseConfig("data_path: snapshot.db\ntime_scale: 2W\n")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestNegativeBalanceRejected() {
	_, err := ParseConfig("data_path: snapshot.db\nstarting_balance: -100\n")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestMissingDataPathRejected() {
	_, err := ParseConfig("data_path: \"\"")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestMalformedYAMLRejected() {
	_, err := ParseConfig("data_path: [unclosed")
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}

func (suite *ConfigTestSuite) TestLoadConfigFromFile() {
	path := filepath.Join(suite.T().TempDir(), "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte("data_path: snapshot.db\ntime_scale: 1M\n"), 0644))

	config, err := LoadConfig(path)
	suite.Require().NoError(err)
	suite.Equal("1M", config.TimeScale)
}

func (suite *ConfigTestSuite) TestLoadConfigMissingFile() {
	_, err := LoadConfig(filepath.Join(suite.T().TempDir(), "missing.yaml"))
	suite.Require().Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))
}
