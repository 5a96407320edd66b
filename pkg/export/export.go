// Package export writes plan rows as JSON, CSV or an HTML chart.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/kilianp07/meetplan/core/planner"
)

// CSVHeader lists the CSV columns in order.
var CSVHeader = []string{"meeting", "team", "start_utc", "end_utc", "local_times", "attendees", "penalty"}

// WriteJSON writes the rows to w as an indented JSON array.
func WriteJSON(w io.Writer, rows []planner.Row) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if rows == nil {
		rows = []planner.Row{}
	}
	return enc.Encode(rows)
}

// WriteCSV writes the rows to w. Unscheduled meetings get empty time and
// penalty cells.
func WriteCSV(w io.Writer, rows []planner.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			r.MeetingID,
			r.Team,
			formatTime(r.StartUTC),
			formatTime(r.EndUTC),
			r.LocalTimes,
			r.Attendees,
			"",
		}
		if r.Penalty != nil {
			rec[6] = strconv.Itoa(*r.Penalty)
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// WriteChart renders an HTML bar chart of the penalty per meeting.
// Unscheduled meetings show as gaps.
func WriteChart(w io.Writer, title string, rows []planner.Row) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: chartSubtitle(rows)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Meeting"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Penalty"}),
	)

	xAxis := make([]string, 0, len(rows))
	data := make([]opts.BarData, 0, len(rows))
	for _, r := range rows {
		xAxis = append(xAxis, r.MeetingID)
		if r.Penalty == nil {
			data = append(data, opts.BarData{Name: r.MeetingID, Value: "-"})
			continue
		}
		data = append(data, opts.BarData{Name: r.MeetingID, Value: *r.Penalty})
	}
	bar.SetXAxis(xAxis).AddSeries("Penalty", data)
	return bar.Render(w)
}

func chartSubtitle(rows []planner.Row) string {
	scheduled, total := 0, 0
	for _, r := range rows {
		if r.Penalty == nil {
			continue
		}
		scheduled++
		total += *r.Penalty
	}
	return strconv.Itoa(scheduled) + "/" + strconv.Itoa(len(rows)) + " scheduled, total penalty " + strconv.Itoa(total)
}
