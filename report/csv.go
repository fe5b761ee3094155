package report

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/rustyeddy/portfolio/aggregate"
)

var (
	equityHeader = []string{"time_ms", "time", "value"}
	dailyHeader  = []string{"day_index", "date", "active_ms", "max_count", "avg_active_count"}
)

// WriteEquityCSV writes one row per point of the portfolio equity series.
func WriteEquityCSV(w io.Writer, s aggregate.EquitySeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(equityHeader); err != nil {
		return err
	}
	for _, p := range s.Points {
		err := cw.Write([]string{
			strconv.FormatInt(p.Time, 10),
			Stamp(p.Time),
			f(p.Value),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteDailyCSV writes one row per active UTC day.
func WriteDailyCSV(w io.Writer, records []aggregate.DailyConcurrencyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(dailyHeader); err != nil {
		return err
	}
	for _, r := range records {
		err := cw.Write([]string{
			strconv.FormatInt(r.DayIndex, 10),
			Date(r.DayIndex),
			strconv.FormatInt(r.ActiveDurationMs, 10),
			strconv.Itoa(r.MaxCount),
			f(r.AvgActiveCount),
		})
		if err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile creates path and hands it to write.
func WriteFile(path string, write func(io.Writer) error) error {
	fh, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(fh); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}
