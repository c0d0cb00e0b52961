package reftable

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"Wellbore/internal/formstate"

	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptySheet        = errors.New("empty sheet")
)

// normalizeHeader lower-cases and collapses whitespace.
func normalizeHeader(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

var bitSizeVariations = []string{"bit size", "bitsize", "bit_size"}

func casingColumn(header string) (Column, bool) {
	h := normalizeHeader(header)
	if h == "" {
		return 0, false
	}
	for _, v := range bitSizeVariations {
		if strings.Contains(h, v) {
			return ColBitSize, true
		}
	}
	if strings.Contains(h, "internal diameter") {
		return ColInternalDiameter, true
	}
	for _, cn := range columnNames {
		if cn.name == h {
			return cn.col, true
		}
	}
	return 0, false
}

// OpenFile checks the extension before opening a workbook.
func OpenFile(path string) (*os.File, error) {
	if ext := strings.ToLower(filepath.Ext(path)); ext != ".xlsx" {
		return nil, fmt.Errorf("%s: %w", ext, ErrUnsupportedFormat)
	}
	return os.Open(path)
}

// LoadCasingFile reads the casing table from an .xlsx file.
func LoadCasingFile(path string) (*CasingTable, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCasing(f)
}

// LoadCasing reads the active sheet of a casing workbook.
func LoadCasing(r io.Reader) (*CasingTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return ParseCasingRows(rows)
}

// ParseCasingRows identifies the header rows and converts the rows below them.
// The header starts at the first row naming at least two columns, so a title
// line above it is skipped. Following rows that name further columns extend
// it, until every column is known or a row names none. A table without
// recognised headers is returned empty; its queries then report
// ErrColumnsNotFound.
func ParseCasingRows(rows [][]string) (*CasingTable, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}

	headerAt := -1
	index := map[Column]int{}
	var found Column
	for i, row := range rows {
		matches := map[Column]int{}
		for j, cell := range row {
			col, ok := casingColumn(cell)
			if !ok || found.Has(col) {
				continue
			}
			if _, dup := matches[col]; !dup {
				matches[col] = j
			}
		}
		if headerAt < 0 && len(matches) < 2 {
			continue
		}
		if len(matches) == 0 {
			break
		}
		for col, j := range matches {
			index[col] = j
			found |= col
		}
		headerAt = i
		if found.Has(AllColumns) {
			break
		}
	}
	if headerAt < 0 {
		return NewCasingTable(nil, 0), nil
	}

	var out []Row
	for _, row := range rows[headerAt+1:] {
		r := parseCasingRow(row, index)
		if r.Valid != 0 {
			out = append(out, r)
		}
	}
	return NewCasingTable(out, found), nil
}

func parseCasingRow(row []string, index map[Column]int) Row {
	var r Row
	cell := func(c Column) (string, bool) {
		j, ok := index[c]
		if !ok || j >= len(row) {
			return "", false
		}
		s := strings.TrimSpace(row[j])
		return s, s != ""
	}
	num := func(c Column, dst *float64) {
		s, ok := cell(c)
		if !ok {
			return
		}
		if v, err := formstate.ParseFloat(s); err == nil && !math.IsNaN(v) {
			*dst = v
			r.Valid |= c
		}
	}

	num(ColAtHead, &r.AtHead)
	num(ColBitSize, &r.BitSize)
	num(ColInternalDiameter, &r.InternalDiameter)
	num(ColExternalPressure, &r.ExternalPressure)
	num(ColTensileStrength, &r.TensileStrength)
	num(ColUnitWeight, &r.UnitWeight)

	// "At body" cells may carry a label before the value, e.g. "9 5/8 244.48".
	if s, ok := cell(ColAtBody); ok {
		fields := strings.Fields(s)
		if v, err := formstate.ParseFloat(fields[len(fields)-1]); err == nil {
			r.AtBody = v
			r.Valid |= ColAtBody
		}
	}
	if s, ok := cell(ColMetalType); ok {
		r.MetalType = ParseMetalType(s)
		r.Valid |= ColMetalType
	}
	return r
}

// Drill-collar workbook headers.
const (
	hdrCollar     = "drilling collars outer diameter"
	hdrGrade      = "drill pipe metal grade"
	hdrPSI        = "minimum tensile strength(psi)"
	hdrMPI        = "minimum tensile strength(mpi)"
	hdrOuter      = "outer diameter"
	hdrAp         = "ap"
	hdrAip        = "aip"
	hdrMp         = "mp"
	hdrQp         = "qp"
	hdrB          = "b"
	hdrGamma      = "γ"
	drillSheetKey = "sheet1"
)

var requiredDrillHeaders = []string{hdrCollar, hdrGrade, hdrMPI, hdrAp, hdrAip, hdrMp, hdrB, hdrGamma}

// LoadDrillFile reads the drill-collar workbook from an .xlsx file.
func LoadDrillFile(path string) (*DrillTable, error) {
	f, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadDrill(f)
}

// LoadDrill reads the sheet named "sheet1" (any case), or the first sheet.
func LoadDrill(r io.Reader) (*DrillTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	for _, name := range f.GetSheetList() {
		if strings.EqualFold(name, drillSheetKey) {
			sheet = name
			break
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return ParseDrillRows(rows)
}

// ParseDrillRows treats the first row as the header row.
func ParseDrillRows(rows [][]string) (*DrillTable, error) {
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	index := map[string]int{}
	for j, h := range rows[0] {
		key := normalizeHeader(h)
		if _, dup := index[key]; key != "" && !dup {
			index[key] = j
		}
	}
	var missing []string
	for _, h := range requiredDrillHeaders {
		if _, ok := index[h]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, &ColumnsError{Missing: missing}
	}

	var (
		collars []float64
		grades  GradeTable
		gamma   []GammaRow
	)
	for _, row := range rows[1:] {
		text := func(h string) string {
			j, ok := index[h]
			if !ok || j >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[j])
		}
		num := func(h string) float64 {
			v, err := formstate.ParseFloat(text(h))
			if err != nil {
				return math.NaN()
			}
			return v
		}

		if c := num(hdrCollar); !math.IsNaN(c) {
			collars = append(collars, c)
		}
		if g := text(hdrGrade); g != "" {
			grades.Add(g, num(hdrPSI), num(hdrMPI))
		}
		gr := GammaRow{
			OuterDiameter: num(hdrOuter),
			Ap:            num(hdrAp),
			Aip:           num(hdrAip),
			Mp:            num(hdrMp),
			Qp:            num(hdrQp),
			B:             num(hdrB),
			Gamma:         num(hdrGamma),
		}
		if anyNaN(gr.Gamma, gr.Ap, gr.Aip, gr.Mp, gr.B) {
			continue
		}
		gamma = append(gamma, gr)
	}
	return NewDrillTable(collars, grades, gamma), nil
}

func anyNaN(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) {
			return true
		}
	}
	return false
}
