package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/campusworks/ccrm-api/internal/models"
)

// PDFExporter renders datasets and transcripts into PDF documents.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	e.table(pdf, data)

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderTranscript produces the official transcript layout: student
// header, one table per semester, then the summary block.
func (e *PDFExporter) RenderTranscript(t *models.Transcript) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "OFFICIAL TRANSCRIPT", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Student: %s (ID: %s)", t.StudentName, t.StudentID), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 7, "Generated: "+t.GeneratedAt.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	for _, group := range t.Semesters {
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(0, 8, string(group.Semester)+" SEMESTER", "", 1, "L", false, 0, "")
		data := Dataset{Headers: []string{"Code", "Title", "Credits", "Grade", "Points"}}
		for _, entry := range group.Entries {
			data.Append(
				entry.Course.Code,
				entry.Course.Title,
				fmt.Sprintf("%d", entry.Course.Credits),
				string(entry.Grade.Letter),
				fmt.Sprintf("%.2f", entry.Grade.GradePoints),
			)
		}
		e.table(pdf, data)
		pdf.Ln(4)
	}

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 8, "SUMMARY", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	summary := []string{
		fmt.Sprintf("Total Credits Attempted: %d", t.Summary.CreditsAttempted),
		fmt.Sprintf("Total Credits Earned: %d", t.Summary.CreditsEarned),
		fmt.Sprintf("Cumulative GPA: %.2f", t.Summary.CumulativeGPA),
		"Academic Standing: " + t.Summary.AcademicStanding,
	}
	for _, line := range summary {
		pdf.CellFormat(0, 6, line, "", 1, "L", false, 0, "")
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render transcript pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *PDFExporter) table(pdf *gofpdf.Fpdf, data Dataset) {
	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}
}
