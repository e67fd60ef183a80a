package types

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// MonthlyReturn is one row of the monthly-returns table: trading P&L bucketed
// by calendar month with the percent return against the equity entering the
// month.
type MonthlyReturn struct {
	// Month in YYYY-MM format.
	Month string `yaml:"month" json:"month"`
	// PnL is the realized trading P&L landed during the month.
	PnL float64 `yaml:"pnl" json:"pnl"`
	// StartEquity is the equity value entering the month.
	StartEquity float64 `yaml:"start_equity" json:"start_equity"`
	// EndEquity is the equity value leaving the month.
	EndEquity float64 `yaml:"end_equity" json:"end_equity"`
	// ReturnPercent is PnL over StartEquity, as a percentage. Zero when the
	// month was entered with no equity.
	ReturnPercent float64 `yaml:"return_percent" json:"return_percent"`
}

// CohortStat is one bucket of a cohort breakdown table.
type CohortStat struct {
	// Key labels the bucket (a date, a sector name, a size range...).
	Key string `yaml:"key" json:"key"`
	// Count of trades in the bucket.
	Count int `yaml:"count" json:"count"`
	// TotalPnL of trades in the bucket.
	TotalPnL float64 `yaml:"total_pnl" json:"total_pnl"`
	// AvgPnL per trade in the bucket.
	AvgPnL float64 `yaml:"avg_pnl" json:"avg_pnl"`
	// Wins counts trades with positive P&L.
	Wins int `yaml:"wins" json:"wins"`
	// Losses counts trades with zero or negative P&L.
	Losses int `yaml:"losses" json:"losses"`
	// WinRate is wins over count, as a percentage.
	WinRate float64 `yaml:"win_rate" json:"win_rate"`
}

// CohortTables bundles every cohort breakdown for one computation.
type CohortTables struct {
	ByDay           []CohortStat `yaml:"by_day" json:"by_day"`
	ByWeek          []CohortStat `yaml:"by_week" json:"by_week"`
	ByMonth         []CohortStat `yaml:"by_month" json:"by_month"`
	ByHoldingPeriod []CohortStat `yaml:"by_holding_period" json:"by_holding_period"`
	BySize          []CohortStat `yaml:"by_size" json:"by_size"`
	ByOpenSize      []CohortStat `yaml:"by_open_size" json:"by_open_size"`
	BySector        []CohortStat `yaml:"by_sector" json:"by_sector"`
	ByWeekday       []CohortStat `yaml:"by_weekday" json:"by_weekday"`
	ByHour          []CohortStat `yaml:"by_hour" json:"by_hour"`
}

// DrawdownStats describes the worst peak-to-trough decline on the equity
// timeline. Drawdown values are negative or zero.
type DrawdownStats struct {
	MaxDrawdown        float64 `yaml:"max_drawdown" json:"max_drawdown"`
	MaxDrawdownPercent float64 `yaml:"max_drawdown_percent" json:"max_drawdown_percent"`
	PeakValue          float64 `yaml:"peak_value" json:"peak_value"`
	TroughValue        float64 `yaml:"trough_value" json:"trough_value"`
}

// DerivedMetrics is the engine's output for one (position set, time window)
// pair. The yaml/json field names are the external dashboard contract and
// must be preserved. A DerivedMetrics value is never mutated after it is
// built; every filter change produces a fresh one.
type DerivedMetrics struct {
	TimeScale TimeScale `yaml:"time_scale" json:"time_scale"`

	WinRate         float64 `yaml:"win_rate" json:"win_rate"`
	ProfitFactor    Ratio   `yaml:"profit_factor" json:"profit_factor"`
	SharpeRatio     Ratio   `yaml:"sharpe_ratio" json:"sharpe_ratio"`
	SortinoRatio    Ratio   `yaml:"sortino_ratio" json:"sortino_ratio"`
	CalmarRatio     Ratio   `yaml:"calmar_ratio" json:"calmar_ratio"`
	KellyPercentage Ratio   `yaml:"kelly_percentage" json:"kelly_percentage"`
	RecoveryFactor  Ratio   `yaml:"recovery_factor" json:"recovery_factor"`
	Expectancy      float64 `yaml:"expectancy" json:"expectancy"`

	MaxDrawdown        float64 `yaml:"max_drawdown" json:"max_drawdown"`
	MaxDrawdownPercent float64 `yaml:"max_drawdown_percent" json:"max_drawdown_percent"`

	ConsecutiveWins      int `yaml:"consecutive_wins" json:"consecutive_wins"`
	ConsecutiveLosses    int `yaml:"consecutive_losses" json:"consecutive_losses"`
	MaxConsecutiveWins   int `yaml:"max_consecutive_wins" json:"max_consecutive_wins"`
	MaxConsecutiveLosses int `yaml:"max_consecutive_losses" json:"max_consecutive_losses"`

	RealizedPnL          float64 `yaml:"realized_pnl" json:"realized_pnl"`
	TradingGrowthPercent float64 `yaml:"trading_growth_percent" json:"trading_growth_percent"`
	TotalGrowthPercent   float64 `yaml:"total_growth_percent" json:"total_growth_percent"`
	NetDeposits          float64 `yaml:"net_deposits" json:"net_deposits"`

	MonthlyReturns []MonthlyReturn `yaml:"monthly_returns" json:"monthly_returns"`

	Drawdown DrawdownStats `yaml:"drawdown" json:"drawdown"`
	Cohorts  CohortTables  `yaml:"cohorts" json:"cohorts"`

	// TradeCount is the number of resolved closed positions in the window.
	TradeCount int `yaml:"trade_count" json:"trade_count"`

	// Warnings collects data-inconsistency annotations (FIFO share
	// mismatches, stored P&L disagreements). Computation always proceeds;
	// warnings are reported, never fatal.
	Warnings []string `yaml:"warnings,omitempty" json:"warnings,omitempty"`
}

// MetricsReport wraps DerivedMetrics with run metadata for persistence. The
// metadata lives here rather than on DerivedMetrics so that recomputing with
// identical inputs yields identical DerivedMetrics values.
type MetricsReport struct {
	// ID is the unique identifier for this computation run.
	ID string `yaml:"id" json:"id"`
	// GeneratedAt is when the report was written.
	GeneratedAt time.Time `yaml:"generated_at" json:"generated_at"`
	// Metrics is the computed result.
	Metrics DerivedMetrics `yaml:"metrics" json:"metrics"`
}

// WriteMetricsReport writes a metrics report to a YAML file.
func WriteMetricsReport(path string, report MetricsReport) error {
	data, err := yaml.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal metrics report to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write metrics report to file: %w", err)
	}

	return nil
}

// ReadMetricsReport reads a metrics report from a YAML file.
func ReadMetricsReport(path string) (MetricsReport, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MetricsReport{}, fmt.Errorf("failed to read metrics report file: %w", err)
	}

	var report MetricsReport
	if err := yaml.Unmarshal(data, &report); err != nil {
		return MetricsReport{}, fmt.Errorf("failed to unmarshal metrics report: %w", err)
	}

	return report, nil
}
