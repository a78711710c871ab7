// Package report renders attendance data as downloadable files.
package report

import (
	"io"
	"strconv"

	"geoattendance/backend/internal/service/summary"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const (
	recordsSheet = "Records"
	totalsSheet  = "Totals"
)

var recordHeaders = []interface{}{"Date", "Time", "Kind", "Mode", "Inside geofence", "Site", "Code", "Recorded at (UTC)"}

// MonthlyExcel writes an employee's monthly report as an xlsx workbook with
// one row per record and a sheet of totals.
func MonthlyExcel(w io.Writer, report summary.MonthlyReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", recordsSheet); err != nil {
		return errors.Wrap(err, "renaming sheet")
	}

	if err := f.SetSheetRow(recordsSheet, "A1", &recordHeaders); err != nil {
		return errors.Wrap(err, "writing headers")
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}
	if err = f.SetCellStyle(recordsSheet, "A1", "H1", bold); err != nil {
		return errors.Wrap(err, "styling headers")
	}
	if err = f.SetColWidth(recordsSheet, "A", "H", 18); err != nil {
		return errors.Wrap(err, "sizing columns")
	}

	for i, item := range report.Items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			item.LocalDate,
			item.LocalTime,
			item.Kind,
			item.Mode,
			yesNo(item.InsideGeofence),
			item.SiteName,
			item.AccountCode,
			item.RecordedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err = f.SetSheetRow(recordsSheet, cell, &row); err != nil {
			return errors.Wrapf(err, "writing row %d", i+2)
		}
	}

	if _, err = f.NewSheet(totalsSheet); err != nil {
		return errors.Wrap(err, "creating totals sheet")
	}
	totals := [][]interface{}{
		{"Code", report.Code},
		{"Month", report.Month},
		{"Total records", report.TotalRecords},
		{"Days with records", report.DaysWithRecords},
		{"Entries", report.Entries},
		{"Exits", report.Exits},
	}
	for i, row := range totals {
		row := row
		if err = f.SetSheetRow(totalsSheet, "A"+strconv.Itoa(i+1), &row); err != nil {
			return errors.Wrap(err, "writing totals")
		}
	}

	return errors.Wrap(f.Write(w), "writing workbook")
}

func yesNo(v *bool) string {
	switch {
	case v == nil:
		return ""
	case *v:
		return "yes"
	default:
		return "no"
	}
}
