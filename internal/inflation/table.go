package inflation

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/Dan9191/debt-indexation/internal/models"
)

// ErrNoYearRows means the table did not contain a single row starting with a year
var ErrNoYearRows = errors.New("no year rows in inflation table")

// TableRow is one row of the published table: the year cell followed by
// monthly cells for January through December. Extra cells are ignored.
type TableRow struct {
	Year   string
	Months []RawIndex
}

// BuildSeries converts table rows into a series. Rows whose first cell is not
// a year are skipped, unparseable monthly cells are left out. It returns the
// number of monthly cells that were dropped. A month that appears twice fails
// the whole table with models.ErrDuplicateMonth.
func BuildSeries(rows []TableRow) (*models.InflationSeries, int, error) {
	var (
		points   []models.InflationIndexPoint
		dropped  int
		yearRows int
	)
	for _, row := range rows {
		year, ok := parseYear(row.Year)
		if !ok {
			continue
		}
		yearRows++
		for i, raw := range row.Months {
			if i >= 12 {
				break
			}
			index, ok := raw.Normalize()
			if !ok {
				dropped++
				continue
			}
			points = append(points, models.Point(year, time.Month(i+1), index))
		}
	}
	if yearRows == 0 {
		return nil, 0, ErrNoYearRows
	}

	series, err := models.NewInflationSeries(points...)
	if err != nil {
		return nil, 0, err
	}
	return series, dropped, nil
}

func parseYear(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, ".0")
	year, err := strconv.Atoi(s)
	if err != nil || year < 1000 || year > 9999 {
		return 0, false
	}
	return year, true
}
