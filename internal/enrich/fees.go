// Package enrich joins normalized sales rows with cost data and derives
// the per-row profit fields: estimated cost, gross profit, channel fee,
// and net gross profit.
package enrich

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// FeeTable maps channel name → marketplace commission rate. Channels
// not in the table pay no fee.
type FeeTable map[string]float64

// DefaultFeeTable returns the built-in commission rates.
func DefaultFeeTable() FeeTable {
	return FeeTable{
		"自社サイト":        0.03,
		"楽天市場":         0.12,
		"Amazon":       0.15,
		"Yahoo!ショッピング": 0.10,
	}
}

// Rate returns the fee rate for a channel, 0 for unknown channels.
func (t FeeTable) Rate(channel string) float64 {
	return t[channel]
}

// LoadFeeTable reads channel fee overrides from a YAML file and merges
// them over the defaults. Channels absent from the file keep their
// built-in rate.
func LoadFeeTable(path string) (FeeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "enrich: read fee table %s", path)
	}

	var wrapper struct {
		ChannelFees map[string]float64 `yaml:"channel_fees"`
	}
	if err := yaml.Unmarshal(data, &wrapper); err != nil {
		return nil, eris.Wrap(err, "enrich: parse fee table")
	}

	table := DefaultFeeTable()
	for channel, rate := range wrapper.ChannelFees {
		table[channel] = rate
	}
	return table, nil
}
