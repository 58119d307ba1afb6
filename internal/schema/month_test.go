package schema

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseMonth(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want Month
		ok   bool
	}{
		{"iso", "2024-03", Month{2024, time.March}, true},
		{"slash", "2024/03", Month{2024, time.March}, true},
		{"japanese", "2024年03月", Month{2024, time.March}, true},
		{"japanese short", "2024年3月", Month{2024, time.March}, true},
		{"compact", "202403", Month{2024, time.March}, true},
		{"full date", "2024-03-15", Month{2024, time.March}, true},
		{"garbage", "not a month", Month{}, false},
		{"empty", "", Month{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMonth(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMonthNextAndBefore(t *testing.T) {
	dec := Month{2023, time.December}
	jan := dec.Next()
	assert.Equal(t, Month{2024, time.January}, jan)
	assert.True(t, dec.Before(jan))
	assert.False(t, jan.Before(dec))
}

func TestMonthString(t *testing.T) {
	assert.Equal(t, "2024-03", Month{2024, time.March}.String())
}

func TestMonthOf(t *testing.T) {
	ts := time.Date(2024, time.July, 31, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, Month{2024, time.July}, MonthOf(ts))
}
