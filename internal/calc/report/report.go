// Package report lays out casing and drill-string results as a PDF.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/calc/drillstring"
	"Wellbore/internal/calc/had"
	"Wellbore/internal/format"

	"github.com/phpdave11/gofpdf"
)

type Meta struct {
	Project string `json:"project" yaml:"project"`
	Author  string `json:"author" yaml:"author"`
	Title   string `json:"title" yaml:"title"`
	Notes   string `json:"notes" yaml:"notes"`
}

// Document is everything one report shows. Casing and Drill are optional.
type Document struct {
	Meta
	Date   time.Time
	Casing *casing.Result
	Drill  *drillstring.Result
}

const (
	lineHeight = 6
	pageWidth  = 190
)

// Render writes doc as an A4 PDF.
func Render(w io.Writer, doc Document) error {
	if doc.Title == "" {
		doc.Title = "Well Sizing Report"
	}
	if doc.Date.IsZero() {
		doc.Date = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(doc.Title, true)
	pdf.SetAuthor(doc.Author, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr(doc.Title))
	pdf.Ln(12)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, lineHeight, tr(fmt.Sprintf("Project: %s", doc.Project)))
	pdf.Ln(lineHeight)
	pdf.Cell(0, lineHeight, tr(fmt.Sprintf("Author: %s", doc.Author)))
	pdf.Ln(lineHeight)
	pdf.Cell(0, lineHeight, fmt.Sprintf("Date: %s", doc.Date.Format("2006-01-02")))
	pdf.Ln(lineHeight)
	if doc.Casing != nil {
		pdf.Cell(0, lineHeight, fmt.Sprintf("Run: %s", doc.Casing.RunID))
		pdf.Ln(lineHeight)
	}
	pdf.Ln(4)

	if doc.Casing != nil {
		casingSection(pdf, tr, *doc.Casing)
		if h := doc.Casing.HAD(); h != nil {
			hadSection(pdf, tr, h)
		}
	}
	if doc.Drill != nil {
		drillSection(pdf, tr, *doc.Drill)
	}

	if doc.Notes != "" {
		heading(pdf, "Notes")
		pdf.SetFont("Helvetica", "", 11)
		pdf.MultiCell(0, lineHeight, tr(doc.Notes), "", "L", false)
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, title)
	pdf.Ln(9)
}

// table draws a header row and body rows with equal column widths unless
// widths is given.
func table(pdf *gofpdf.Fpdf, tr func(string) string, header []string, rows [][]string, widths []float64) {
	if len(widths) == 0 {
		for range header {
			widths = append(widths, pageWidth/float64(len(header)))
		}
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(76, 175, 80)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(0, 0, 0)
	for n, row := range rows {
		fill := n%2 == 1
		pdf.SetFillColor(235, 235, 235)
		for i, cell := range row {
			pdf.CellFormat(widths[i], 6, tr(cell), "1", 0, "C", fill, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(4)
}

func casingSection(pdf *gofpdf.Fpdf, tr func(string) string, r casing.Result) {
	heading(pdf, "Casing and bit sizes")
	var rows [][]string
	for _, s := range r.Sections {
		rows = append(rows, []string{
			s.Role.Title(), format.MM(s.BitSize), format.MM(s.AtHead), format.MM(s.AtBody),
			format.Num(s.InternalDiameter), format.MM(s.Collar),
		})
	}
	table(pdf, tr, []string{"Section", "Bit size", "DCSG", "DCSG'", "Internal diameter", "Collar"}, rows,
		[]float64{25, 35, 35, 35, 25, 35})
	if r.State == casing.StateFailed {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.SetTextColor(200, 40, 40)
		pdf.MultiCell(0, lineHeight, tr("Stopped: "+r.Reason), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}
}

func hadSection(pdf *gofpdf.Fpdf, tr func(string) string, h *had.Result) {
	heading(pdf, fmt.Sprintf("Critical depth for %.2f", h.TargetDepth))
	var rows [][]string
	for i, c := range h.Candidates {
		l := "-"
		if c.HasLength {
			l = format.Num(c.Length)
		}
		rows = append(rows, []string{
			fmt.Sprint(i + 1), format.Num(c.HAD), format.Num(c.ExternalPressure), string(c.MetalType),
			format.Num(c.TensileStrength), format.Num(c.UnitWeight), l,
		})
	}
	table(pdf, tr, []string{"Rank", "HAD", "Ext. pressure", "Metal type", "Tensile", "Unit weight", "L-value"}, rows, nil)
	if !h.Reachable {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, lineHeight, "Target depth is not reachable with the matching rows.")
		pdf.Ln(lineHeight + 2)
	} else if h.Lengths != nil {
		pdf.SetFont("Helvetica", "", 10)
		pdf.Cell(0, lineHeight, fmt.Sprintf("Total length: %.2f", h.Lengths.Total()))
		pdf.Ln(lineHeight + 2)
	} else if h.LengthsError != "" {
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, lineHeight, tr("Section lengths not solved: "+h.LengthsError))
		pdf.Ln(lineHeight + 2)
	}
}

func drillSection(pdf *gofpdf.Fpdf, tr func(string) string, r drillstring.Result) {
	heading(pdf, "Drill string")
	var rows [][]string
	for _, in := range r.Instances {
		grade, lmax := "-", "-"
		if in.Loads != nil {
			grade, lmax = in.Loads.Grade, format.Num(in.Loads.Lmax)
		}
		note := in.Note
		if in.Error != "" {
			note = in.Error
		}
		rows = append(rows, []string{
			fmt.Sprint(in.Index), in.Role.Title(), format.Num(in.L0c), format.Num(in.Lp), grade, lmax,
			strings.ReplaceAll(note, "γ", "gamma"),
		})
	}
	table(pdf, tr, []string{"Instance", "Section", "L0c", "Lp", "Metal grade", "Lmax", "Note"}, rows,
		[]float64{18, 25, 22, 22, 25, 22, 56})
}
