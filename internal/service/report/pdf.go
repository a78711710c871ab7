package report

import (
	"fmt"
	"io"
	"strconv"

	"geoattendance/backend/internal/service/summary"

	"github.com/jung-kurt/gofpdf/v2"
	"github.com/pkg/errors"
)

// SummaryPDF writes the attendance summary as a one document report: the
// totals, the per day series and the absent and late lists of the detail day.
func SummaryPDF(w io.Writer, result summary.Result) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Attendance summary", true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Attendance summary")
	pdf.Ln(12)

	scope := "all sites"
	if result.SiteID != nil {
		scope = "site " + *result.SiteID
	}
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Range: %s (%s to %s)", result.Range, result.From, result.To),
		"Scope: " + tr(scope),
		fmt.Sprintf("Employees: %d    Late after: %s", result.Employees, result.RuleLateAfter),
		fmt.Sprintf("Present: %d    Late: %d    Absent: %d", result.Totals.Present, result.Totals.Late, result.Totals.Absent),
	} {
		pdf.Cell(0, 6, line)
		pdf.Ln(6)
	}
	pdf.Ln(4)

	table(pdf, []string{"Date", "Present", "Late", "Absent"}, []float64{50, 40, 40, 40}, func(row func(...string)) {
		for _, d := range result.Series {
			row(d.Date, strconv.Itoa(d.Present), strconv.Itoa(d.Late), strconv.Itoa(d.Absent))
		}
	})

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Detail for %s", result.Detail.Date))
	pdf.Ln(10)

	table(pdf, []string{"Absent code", "Site"}, []float64{80, 90}, func(row func(...string)) {
		for _, a := range result.Detail.Absent {
			site := ""
			if a.SiteID != nil {
				site = *a.SiteID
			}
			row(tr(a.Code), tr(site))
		}
	})

	pdf.Ln(6)
	table(pdf, []string{"Late code", "First entry"}, []float64{80, 90}, func(row func(...string)) {
		for _, l := range result.Detail.Late {
			row(tr(l.Code), l.Time)
		}
	})

	if err := pdf.Output(w); err != nil {
		return errors.Wrap(err, "writing pdf")
	}
	return nil
}

func table(pdf *gofpdf.Fpdf, headers []string, widths []float64, body func(row func(...string))) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	body(func(cells ...string) {
		for i, c := range cells {
			pdf.CellFormat(widths[i], 6, c, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	})
}
