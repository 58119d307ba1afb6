package period

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestParseGranularity(t *testing.T) {
	for _, g := range []string{"month", "week", "quarter", "year"} {
		got, ok := ParseGranularity(g)
		assert.True(t, ok)
		assert.Equal(t, Granularity(g), got)
	}
	_, ok := ParseGranularity("fortnight")
	assert.False(t, ok)
}

func TestBucketWeekStartsMonday(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"monday maps to itself", "2024-03-04", "2024-03-04"},
		{"sunday maps to prior monday", "2024-03-10", "2024-03-04"},
		{"wednesday", "2024-03-06", "2024-03-04"},
		{"across month boundary", "2024-03-01", "2024-02-26"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Bucket(day(tt.in), Week)
			assert.Equal(t, day(tt.want), p.Start)
		})
	}
}

func TestBucketQuarterAndYear(t *testing.T) {
	p := Bucket(day("2024-05-20"), Quarter)
	assert.Equal(t, day("2024-04-01"), p.Start)
	assert.Equal(t, day("2024-06-30"), p.End())

	p = Bucket(day("2024-05-20"), Year)
	assert.Equal(t, day("2024-01-01"), p.Start)
	assert.Equal(t, day("2024-12-31"), p.End())
}

func TestBucketMonth(t *testing.T) {
	p := Bucket(day("2024-02-29"), Month)
	assert.Equal(t, day("2024-02-01"), p.Start)
	assert.Equal(t, day("2024-02-29"), p.End())
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "2024-03", Bucket(day("2024-03-15"), Month).Label())
	assert.Equal(t, "2024Q1", Bucket(day("2024-03-15"), Quarter).Label())
	assert.Equal(t, "2024", Bucket(day("2024-03-15"), Year).Label())
	assert.Equal(t, "2024-03-04週 (03/04〜03/10)", Bucket(day("2024-03-06"), Week).Label())
}
