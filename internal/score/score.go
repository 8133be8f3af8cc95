// Package score compares reference limit values against newly extracted ones
// and reports per-sheet and aggregate match rates.
package score

import (
	"math"
	"strconv"

	"github.com/materialqc/specsheet/internal/spec"
)

// Numeric closeness tolerances: |a-b| <= atol + rtol*|b|.
const (
	defaultRtol = 1e-5
	defaultAtol = 1e-8
)

// Row is one inspection item with its reference and extracted limits.
type Row struct {
	Name     string
	Type     string
	Upper    string // reference
	Lower    string // reference
	NewUpper string // extracted
	NewLower string // extracted
}

// SheetResult aggregates one sheet's comparison. Each quantitative row
// contributes two cells (upper and lower).
type SheetResult struct {
	Sheet      string
	TotalCells int
	Matched    int
	Mismatched int
}

// Rate is the percentage of matched cells.
func (r SheetResult) Rate() float64 {
	if r.TotalCells == 0 {
		return 0
	}
	return float64(r.Matched) / float64(r.TotalCells) * 100
}

// Summary rolls SheetResults up into one aggregate.
type Summary struct {
	Sheets     []SheetResult
	TotalCells int
	Matched    int
}

func (s Summary) Rate() float64 {
	if s.TotalCells == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.TotalCells) * 100
}

// ValuesEqual treats two limit values as equal when they are the same
// string, both missing, or numerically close. 无穷大 is normalized to ∞
// before comparison.
func ValuesEqual(a, b string) bool {
	if a == "无穷大" {
		a = spec.Infinity
	}
	if b == "无穷大" {
		b = spec.Infinity
	}
	if a == "" && b == "" {
		return true
	}
	if a == "" || b == "" {
		return false
	}
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return math.Abs(fa-fb) <= defaultAtol+defaultRtol*math.Abs(fb)
	}
	return a == b
}

// ScoreSheet compares a sheet's rows; qualitative rows are excluded.
func ScoreSheet(sheet string, rows []Row) SheetResult {
	res := SheetResult{Sheet: sheet}
	for _, row := range rows {
		if row.Type != spec.TypeQuantitative {
			continue
		}
		res.TotalCells += 2
		if ValuesEqual(row.NewUpper, row.Upper) {
			res.Matched++
		}
		if ValuesEqual(row.NewLower, row.Lower) {
			res.Matched++
		}
	}
	res.Mismatched = res.TotalCells - res.Matched
	return res
}

// Aggregate combines per-sheet results.
func Aggregate(results []SheetResult) Summary {
	s := Summary{Sheets: results}
	for _, r := range results {
		s.TotalCells += r.TotalCells
		s.Matched += r.Matched
	}
	return s
}
