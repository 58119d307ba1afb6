// Package schema defines the canonical record types shared by every
// pipeline stage: normalized sales, cost, and subscription rows, the
// enriched (cost-joined) sales row, and the small value types (Month,
// NullFloat) their derived fields are built from.
package schema

import (
	"math"
	"strconv"
)

// NullFloat is a float64 with an explicit presence flag. Absent metrics
// propagate as null rather than zero so a missing churn rate is never
// read as "no churn".
type NullFloat struct {
	Float64 float64
	Valid   bool
}

// F returns a valid NullFloat holding v.
func F(v float64) NullFloat {
	return NullFloat{Float64: v, Valid: true}
}

// Null returns the absent value.
func Null() NullFloat {
	return NullFloat{}
}

// FromPtr converts an optional pointer into a NullFloat.
func FromPtr(p *float64) NullFloat {
	if p == nil {
		return Null()
	}
	return F(*p)
}

// Or returns the held value, or def when absent.
func (n NullFloat) Or(def float64) float64 {
	if !n.Valid {
		return def
	}
	return n.Float64
}

// Add returns n + o; absent operands contribute nothing, and the result
// is absent only when both operands are.
func (n NullFloat) Add(o NullFloat) NullFloat {
	if !n.Valid && !o.Valid {
		return Null()
	}
	return F(n.Or(0) + o.Or(0))
}

// Sub returns n − o, absent when either operand is absent.
func (n NullFloat) Sub(o NullFloat) NullFloat {
	if !n.Valid || !o.Valid {
		return Null()
	}
	return F(n.Float64 - o.Float64)
}

// String renders the value for tabular output, "-" when absent.
func (n NullFloat) String() string {
	if !n.Valid {
		return "-"
	}
	return strconv.FormatFloat(n.Float64, 'f', -1, 64)
}

// Ratio divides num by den, returning null when the denominator is
// absent, zero, or NaN. Ratios are never defaulted to zero.
func Ratio(num float64, den NullFloat) NullFloat {
	if !den.Valid || den.Float64 == 0 || math.IsNaN(den.Float64) {
		return Null()
	}
	return F(num / den.Float64)
}

// RatioN is Ratio with a nullable numerator: null numerator yields null.
func RatioN(num, den NullFloat) NullFloat {
	if !num.Valid {
		return Null()
	}
	return Ratio(num.Float64, den)
}
