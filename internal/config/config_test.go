package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadFrom(t *testing.T, dir string) (*Config, error) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return Load()
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := loadFrom(t, t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 2_500_000.0, cfg.Report.FixedCost)
	assert.Equal(t, 5_000_000.0, cfg.Cashflow.OpeningCash)
	assert.Equal(t, 600_000.0, cfg.Cashflow.LoanRepayment)
	assert.Equal(t, 6, cfg.Cashflow.HorizonMonths)
	assert.Equal(t, 0.30, cfg.Alerts.RevenueDropRate)
	assert.Equal(t, 0.05, cfg.Alerts.ChurnRate)
	assert.Equal(t, 0.60, cfg.Alerts.MinMarginRate)
	assert.Equal(t, 0.0, cfg.Alerts.MinCashBalance)
	assert.Equal(t, 30, cfg.Endpoint.TimeoutSecs)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `report:
  fixed_cost: 1800000
cashflow:
  opening_cash: 9000000
alerts:
  churn_rate: 0.08
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := loadFrom(t, dir)
	require.NoError(t, err)
	assert.Equal(t, 1_800_000.0, cfg.Report.FixedCost)
	assert.Equal(t, 9_000_000.0, cfg.Cashflow.OpeningCash)
	assert.Equal(t, 0.08, cfg.Alerts.ChurnRate)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Untouched keys keep their defaults.
	assert.Equal(t, 600_000.0, cfg.Cashflow.LoanRepayment)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("KEISU_REPORT_FIXED_COST", "3000000")
	t.Setenv("KEISU_LOG_LEVEL", "warn")

	cfg, err := loadFrom(t, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 3_000_000.0, cfg.Report.FixedCost)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "json"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "console"}))
	assert.Error(t, InitLogger(LogConfig{Level: "noisy", Format: "json"}))
}
