package reftable_test

import (
	"errors"
	"testing"

	"Wellbore/internal/reftable"
	"Wellbore/internal/reftable/reftabletest"

	"github.com/google/go-cmp/cmp"
)

func TestLoadCasing_RoundTripsWorkbook(t *testing.T) {
	buf, err := reftabletest.Workbook("Sheet1", reftabletest.CasingHeaders, reftabletest.CasingRows)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	tbl, err := reftable.LoadCasing(buf)
	if err != nil {
		t.Fatalf("LoadCasing: %v", err)
	}
	if tbl.Columns() != reftable.AllColumns {
		t.Errorf("columns = %b, want all", tbl.Columns())
	}
	if diff := cmp.Diff(reftabletest.Casing().Rows(), tbl.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestParseCasingRows_HeaderVariants(t *testing.T) {
	rows := [][]string{
		{"Casing catalogue"},
		{" AT  HEAD ", "Bit_Size (mm)", "Internal Diameter, mm", "Metal type"},
		{"194.5", "215.9", "224.4", " n-80 "},
		{"n/a", "", "", ""},
		{"269,9", "311.1", "317.9", "P-110"},
	}
	tbl, err := reftable.ParseCasingRows(rows)
	if err != nil {
		t.Fatalf("ParseCasingRows: %v", err)
	}
	want := reftable.ColAtHead | reftable.ColBitSize | reftable.ColInternalDiameter | reftable.ColMetalType
	if tbl.Columns() != want {
		t.Errorf("columns = %b, want %b", tbl.Columns(), want)
	}
	if tbl.Len() != 2 {
		t.Fatalf("expected 2 data rows, got %d", tbl.Len())
	}
	if r := tbl.Rows()[0]; r.MetalType != reftable.N80 {
		t.Errorf("metal type = %q, want N-80", r.MetalType)
	}
	head, err := tbl.LookupByInternalDiameter(317.9)
	if err != nil || head != 269.9 {
		t.Errorf("LookupByInternalDiameter = %v, %v", head, err)
	}
	if _, err := tbl.FindMatchingRows(194.5, reftable.N80); !errors.Is(err, reftable.ErrColumnsNotFound) {
		t.Errorf("expected ErrColumnsNotFound without pressure columns, got %v", err)
	}
}

func TestParseCasingRows_AtBodyLabel(t *testing.T) {
	rows := [][]string{
		{"At head", "At body"},
		{"269.9", "9 5/8 244.5"},
	}
	tbl, err := reftable.ParseCasingRows(rows)
	if err != nil {
		t.Fatalf("ParseCasingRows: %v", err)
	}
	head, err := tbl.ResolveInitialAtHead(244.5)
	if err != nil || head != 269.9 {
		t.Errorf("ResolveInitialAtHead = %v, %v", head, err)
	}
}

func TestParseCasingRows_NoHeaders(t *testing.T) {
	tbl, err := reftable.ParseCasingRows([][]string{{"foo", "bar"}, {"1", "2"}})
	if err != nil {
		t.Fatalf("ParseCasingRows: %v", err)
	}
	if _, _, err := tbl.NearestBitSize(1); !errors.Is(err, reftable.ErrColumnsNotFound) {
		t.Errorf("expected ErrColumnsNotFound, got %v", err)
	}
	if _, err := reftable.ParseCasingRows(nil); !errors.Is(err, reftable.ErrEmptySheet) {
		t.Errorf("expected ErrEmptySheet, got %v", err)
	}
}

func TestLoadDrill_Workbook(t *testing.T) {
	buf, err := reftabletest.Workbook("sheet1", reftabletest.DrillHeaders, reftabletest.DrillRows)
	if err != nil {
		t.Fatalf("Workbook: %v", err)
	}
	d, err := reftable.LoadDrill(buf)
	if err != nil {
		t.Fatalf("LoadDrill: %v", err)
	}
	want := reftabletest.Drill()
	if diff := cmp.Diff(want.Collars(), d.Collars()); diff != "" {
		t.Errorf("collars mismatch:\n%s", diff)
	}
	if diff := cmp.Diff(want.Grades(), d.Grades()); diff != "" {
		t.Errorf("grades mismatch:\n%s", diff)
	}
	g, err := d.LookupGamma(1.2)
	if err != nil {
		t.Fatalf("LookupGamma: %v", err)
	}
	if g.Ap != 3.4 || g.Mp != 0.8 || g.B != 0.85 {
		t.Errorf("gamma row = %+v", g)
	}
}

func TestParseDrillRows_MissingHeaders(t *testing.T) {
	_, err := reftable.ParseDrillRows([][]string{{"Drilling collars outer diameter", "γ"}})
	var ce *reftable.ColumnsError
	if !errors.As(err, &ce) {
		t.Fatalf("expected ColumnsError, got %v", err)
	}
	if len(ce.Missing) != 6 {
		t.Errorf("expected 6 missing headers, got %v", ce.Missing)
	}
}

func TestOpenFile_RejectsOtherFormats(t *testing.T) {
	if _, err := reftable.LoadCasingFile("table.docx"); !errors.Is(err, reftable.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestParseCasingRows_TitleAndSplitHeader(t *testing.T) {
	rows := [][]string{
		{"Bit size chart"},
		{"At head", "At body", "Bit size", "Internal diameter"},
		{"", "", "", "", "External pressure MPa", "Metal type", "Tensile strength at body Tonf", "Unit weight length lbs/ft"},
		{"194.5", "177.8", "215.9", "224.4", "40", "N-80", "250", "26"},
	}
	tbl, err := reftable.ParseCasingRows(rows)
	if err != nil {
		t.Fatalf("ParseCasingRows: %v", err)
	}
	if tbl.Columns() != reftable.AllColumns {
		t.Errorf("columns = %b, want all", tbl.Columns())
	}
	if tbl.Len() != 1 {
		t.Fatalf("expected 1 data row, got %d", tbl.Len())
	}
	want := reftable.Row{
		AtHead: 194.5, AtBody: 177.8, BitSize: 215.9, InternalDiameter: 224.4,
		ExternalPressure: 40, MetalType: reftable.N80, TensileStrength: 250, UnitWeight: 26,
		Valid: reftable.AllColumns,
	}
	if diff := cmp.Diff(want, tbl.Rows()[0]); diff != "" {
		t.Errorf("row (-want +got):\n%s", diff)
	}
}
