package export

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/pmcoe-ai1/conference-app/pkg/model"
	"github.com/pmcoe-ai1/conference-app/pkg/stats"
)

const (
	pageWidth  = 180.0
	labelWidth = 60.0
	barWidth   = 90.0
	lineHeight = 6.0
	maxTexts   = 20
)

// SurveyPDF renders a statistics report for one survey
func SurveyPDF(w io.Writer, conference *model.Conference, s *stats.SurveyStats, generatedAt time.Time) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(tr(s.Title), false)
	pdf.SetCreator("conference-app", false)
	pdf.SetCreationDate(generatedAt)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(pageWidth, 9, tr(s.Title), "", "L", false)
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(pageWidth, lineHeight, tr(conference.Name), "", 1, "L", false, 0, "")
	pdf.CellFormat(pageWidth, lineHeight, "Generated "+generatedAt.UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(pageWidth, 8, "Summary", "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	summary := [][2]string{
		{"Registered attendees", fmt.Sprint(s.TotalAttendees)},
		{"Respondents", fmt.Sprint(s.TotalRespondents)},
		{"Response rate", fmt.Sprintf("%.1f%%", s.ResponseRate)},
	}
	for _, kv := range summary {
		pdf.CellFormat(labelWidth, lineHeight, kv[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(pageWidth-labelWidth, lineHeight, kv[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	for i, q := range s.Questions {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.MultiCell(pageWidth, 7, tr(fmt.Sprintf("%d. %s", i+1, q.Text)), "", "L", false)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(pageWidth, 5, fmt.Sprintf("%s, %d answers", q.Type, q.ResponseCount), "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)

		if q.Average != nil {
			pdf.CellFormat(pageWidth, lineHeight, fmt.Sprintf("Average %.2f (min %d, max %d)", *q.Average, *q.Min, *q.Max), "", 1, "L", false, 0, "")
		}
		for _, b := range q.Distribution {
			drawBar(pdf, tr(b.Value), b)
		}
		for j, a := range q.TextAnswers {
			if j == maxTexts {
				pdf.CellFormat(pageWidth, lineHeight, fmt.Sprintf("... and %d more", len(q.TextAnswers)-maxTexts), "", 1, "L", false, 0, "")
				break
			}
			pdf.MultiCell(pageWidth, 5, tr("- "+a.Value), "", "L", false)
		}
		pdf.Ln(4)
	}

	return pdf.Output(w)
}

func drawBar(pdf *fpdf.Fpdf, label string, b stats.Bucket) {
	pdf.CellFormat(labelWidth, lineHeight, label, "", 0, "L", false, 0, "")
	x, y := pdf.GetXY()
	pdf.SetFillColor(230, 230, 230)
	pdf.Rect(x, y+1, barWidth, lineHeight-2, "F")
	if b.Percentage > 0 {
		pdf.SetFillColor(66, 133, 244)
		pdf.Rect(x, y+1, barWidth*b.Percentage/100, lineHeight-2, "F")
	}
	pdf.SetX(x + barWidth + 2)
	pdf.CellFormat(pageWidth-labelWidth-barWidth-2, lineHeight, fmt.Sprintf("%d (%.1f%%)", b.Count, b.Percentage), "", 1, "L", false, 0, "")
}
