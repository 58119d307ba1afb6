// Package config loads application configuration from file and
// environment and owns global logger setup.
package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Report   ReportConfig   `yaml:"report" mapstructure:"report"`
	Cashflow CashflowConfig `yaml:"cashflow" mapstructure:"cashflow"`
	Fees     FeesConfig     `yaml:"fees" mapstructure:"fees"`
	Alerts   AlertsConfig   `yaml:"alerts" mapstructure:"alerts"`
	Notify   NotifyConfig   `yaml:"notify" mapstructure:"notify"`
	Endpoint EndpointConfig `yaml:"endpoint" mapstructure:"endpoint"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// ReportConfig holds the fixed assumptions behind P&L reporting.
type ReportConfig struct {
	FixedCost float64 `yaml:"fixed_cost" mapstructure:"fixed_cost"`
}

// CashflowConfig configures the cash forecast.
type CashflowConfig struct {
	OpeningCash   float64 `yaml:"opening_cash" mapstructure:"opening_cash"`
	LoanRepayment float64 `yaml:"loan_repayment" mapstructure:"loan_repayment"`
	HorizonMonths int     `yaml:"horizon_months" mapstructure:"horizon_months"`
	PlanFile      string  `yaml:"plan_file" mapstructure:"plan_file"`
}

// FeesConfig points at an optional channel fee override file.
type FeesConfig struct {
	TableFile string `yaml:"table_file" mapstructure:"table_file"`
}

// AlertsConfig holds the alert rule thresholds.
type AlertsConfig struct {
	RevenueDropRate float64 `yaml:"revenue_drop_rate" mapstructure:"revenue_drop_rate"`
	ChurnRate       float64 `yaml:"churn_rate" mapstructure:"churn_rate"`
	MinMarginRate   float64 `yaml:"min_margin_rate" mapstructure:"min_margin_rate"`
	MinCashBalance  float64 `yaml:"min_cash_balance" mapstructure:"min_cash_balance"`
}

// NotifyConfig holds push notification credentials.
type NotifyConfig struct {
	ServerKey    string   `yaml:"server_key" mapstructure:"server_key"`
	DeviceTokens []string `yaml:"device_tokens" mapstructure:"device_tokens"`
	Topic        string   `yaml:"topic" mapstructure:"topic"`
	DryRun       bool     `yaml:"dry_run" mapstructure:"dry_run"`
}

// EndpointConfig configures the remote sales endpoint.
type EndpointConfig struct {
	URL         string  `yaml:"url" mapstructure:"url"`
	Token       string  `yaml:"token" mapstructure:"token"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RateLimit   float64 `yaml:"rate_limit" mapstructure:"rate_limit"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("KEISU")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("report.fixed_cost", 2_500_000)
	v.SetDefault("cashflow.opening_cash", 5_000_000)
	v.SetDefault("cashflow.loan_repayment", 600_000)
	v.SetDefault("cashflow.horizon_months", 6)
	v.SetDefault("alerts.revenue_drop_rate", 0.30)
	v.SetDefault("alerts.churn_rate", 0.05)
	v.SetDefault("alerts.min_margin_rate", 0.60)
	v.SetDefault("alerts.min_cash_balance", 0)
	v.SetDefault("endpoint.timeout_secs", 30)
	v.SetDefault("endpoint.rate_limit", 2)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
