package models

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"cloud.google.com/go/civil"
)

// ErrDuplicateMonth is returned when a series would hold two points for one month
var ErrDuplicateMonth = errors.New("duplicate month in inflation series")

// YearMonth identifies a calendar month
type YearMonth struct {
	Year  int
	Month time.Month
}

// FirstDay returns the first calendar day of the month
func (ym YearMonth) FirstDay() civil.Date {
	return civil.Date{Year: ym.Year, Month: ym.Month, Day: 1}
}

// Before reports whether ym is earlier than other
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MarshalText implements encoding.TextMarshaler
func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler, format YYYY-MM
func (ym *YearMonth) UnmarshalText(data []byte) error {
	t, err := time.Parse("2006-01", string(data))
	if err != nil {
		return fmt.Errorf("invalid month %q: %w", string(data), err)
	}
	ym.Year, ym.Month = t.Year(), t.Month()
	return nil
}

// InflationIndexPoint is a monthly inflation index in percent (100 = no change).
// Index is nil for months that are not published.
type InflationIndexPoint struct {
	Month YearMonth `json:"month"`
	Index *float64  `json:"index"`
}

// Value returns the index and whether it is defined
func (p InflationIndexPoint) Value() (float64, bool) {
	if p.Index == nil {
		return 0, false
	}
	return *p.Index, true
}

// Point builds a point with a defined index
func Point(year int, month time.Month, index float64) InflationIndexPoint {
	return InflationIndexPoint{Month: YearMonth{Year: year, Month: month}, Index: &index}
}

// UnpublishedPoint builds a point without an index value
func UnpublishedPoint(year int, month time.Month) InflationIndexPoint {
	return InflationIndexPoint{Month: YearMonth{Year: year, Month: month}}
}

// InflationSeries is an ordered, month-unique set of index points.
// It is immutable once built and safe to share between goroutines.
type InflationSeries struct {
	points []InflationIndexPoint
}

// NewInflationSeries sorts points by month and rejects duplicates
func NewInflationSeries(points ...InflationIndexPoint) (*InflationSeries, error) {
	sorted := make([]InflationIndexPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Month.Before(sorted[j].Month)
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Month == sorted[i-1].Month {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateMonth, sorted[i].Month)
		}
	}
	return &InflationSeries{points: sorted}, nil
}

// Len returns the number of points; a nil series is empty
func (s *InflationSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.points)
}

// Points returns a copy of the points in month order
func (s *InflationSeries) Points() []InflationIndexPoint {
	if s == nil {
		return nil
	}
	out := make([]InflationIndexPoint, len(s.points))
	copy(out, s.points)
	return out
}

// Lookup returns the point for a month
func (s *InflationSeries) Lookup(ym YearMonth) (InflationIndexPoint, bool) {
	if s == nil {
		return InflationIndexPoint{}, false
	}
	i := sort.Search(len(s.points), func(i int) bool {
		return !s.points[i].Month.Before(ym)
	})
	if i < len(s.points) && s.points[i].Month == ym {
		return s.points[i], true
	}
	return InflationIndexPoint{}, false
}
