package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInflationSeriesSortsPoints(t *testing.T) {
	series, err := NewInflationSeries(
		Point(2021, time.March, 10.2),
		UnpublishedPoint(2021, time.April),
		Point(2020, time.December, 10.1),
		Point(2021, time.January, 10.0),
	)
	require.NoError(t, err)

	var months []string
	for _, p := range series.Points() {
		months = append(months, p.Month.String())
	}
	assert.Equal(t, []string{"2020-12", "2021-01", "2021-03", "2021-04"}, months)
}

func TestNewInflationSeriesRejectsDuplicates(t *testing.T) {
	_, err := NewInflationSeries(Point(2021, time.March, 10.2), Point(2021, time.March, 10.3))
	assert.ErrorIs(t, err, ErrDuplicateMonth)
}

func TestLookup(t *testing.T) {
	series, err := NewInflationSeries(
		Point(2021, time.January, 10.0),
		UnpublishedPoint(2021, time.February),
		Point(2021, time.May, 9.9),
	)
	require.NoError(t, err)

	p, ok := series.Lookup(YearMonth{Year: 2021, Month: time.May})
	require.True(t, ok)
	v, ok := p.Value()
	assert.True(t, ok)
	assert.Equal(t, 9.9, v)

	p, ok = series.Lookup(YearMonth{Year: 2021, Month: time.February})
	require.True(t, ok)
	_, ok = p.Value()
	assert.False(t, ok, "unpublished month has no value")

	_, ok = series.Lookup(YearMonth{Year: 2021, Month: time.March})
	assert.False(t, ok, "gaps are absent, not zero")
}

func TestNilSeries(t *testing.T) {
	var series *InflationSeries
	assert.Equal(t, 0, series.Len())
	assert.Nil(t, series.Points())
	_, ok := series.Lookup(YearMonth{Year: 2021, Month: time.January})
	assert.False(t, ok)
}

func TestPointsReturnsCopy(t *testing.T) {
	series, err := NewInflationSeries(Point(2021, time.January, 10.0))
	require.NoError(t, err)

	points := series.Points()
	points[0] = Point(1999, time.June, 1)

	p, ok := series.Lookup(YearMonth{Year: 2021, Month: time.January})
	require.True(t, ok)
	assert.Equal(t, 2021, p.Month.Year)
}

func TestYearMonthJSON(t *testing.T) {
	data, err := json.Marshal(Point(2022, time.July, 9.93))
	require.NoError(t, err)
	assert.JSONEq(t, `{"month":"2022-07","index":9.93}`, string(data))

	data, err = json.Marshal(UnpublishedPoint(2022, time.August))
	require.NoError(t, err)
	assert.JSONEq(t, `{"month":"2022-08","index":null}`, string(data))

	var p InflationIndexPoint
	require.NoError(t, json.Unmarshal([]byte(`{"month":"2023-03","index":10.15}`), &p))
	assert.Equal(t, YearMonth{Year: 2023, Month: time.March}, p.Month)

	assert.Error(t, json.Unmarshal([]byte(`{"month":"March 2023"}`), &p))
}

func TestFirstDay(t *testing.T) {
	ym := YearMonth{Year: 2024, Month: time.February}
	assert.Equal(t, "2024-02-01", ym.FirstDay().String())
	assert.True(t, ym.Before(YearMonth{Year: 2024, Month: time.March}))
	assert.False(t, ym.Before(YearMonth{Year: 2023, Month: time.December}))
}
