// Package reftabletest provides small reference tables shared by tests.
package reftabletest

import (
	"bytes"
	"fmt"
	"strings"

	"Wellbore/internal/reftable"

	"github.com/xuri/excelize/v2"
)

// CasingHeaders is the header row of the casing workbook.
var CasingHeaders = []any{
	"At head", "At body", "Bit size", "Internal diameter",
	"External pressure MPa", "Metal type", "Tensile strength at body Tonf", "Unit weight length lbs/ft",
}

// CasingRows chains 177.8 -> 194.5 -> 269.9 -> 365.1 with multipliers
// 1.1, 1.15, 1.2. The N-80 rows at 194.5 give HAD values of roughly
// 3429, 4715, 5573 and 6430.
var CasingRows = [][]any{
	{365.1, 339.7, 444.5, 317.9, 15.0, "K-55", 500.0, 54.5},
	{269.9, 244.5, 374.7, 224.4, 30.0, "N-80", 400.0, 43.5},
	{269.9, 244.5, 311.1, 317.9, 35.0, "P-110", 450.0, 47.0},
	{194.5, 177.8, 215.9, 224.4, 40.0, "N-80", 250.0, 26.0},
	{194.5, 177.8, 220.0, 150.0, 55.0, "N-80", 280.0, 29.0},
	{194.5, 177.8, 230.0, 151.0, 65.0, "N-80", 310.0, 32.0},
	{194.5, 177.8, 240.0, 152.0, 75.0, "N-80", 340.0, 35.0},
}

// Collars is the collar diameter catalogue.
var Collars = []float64{120.6, 165.1, 203.2, 228.6, 241.3}

// DrillHeaders is the header row of the drill-collar workbook.
var DrillHeaders = []any{
	"Drilling collars outer diameter", "Drill pipe Metal grade",
	"Minimum tensile strength(psi)", "Minimum tensile strength(mpi)",
	"Outer diameter", "AP", "AIP", "Mp", "qp", "b", "γ",
}

// DrillRows carries four grades and two γ rows (1.2 and 1.3).
var DrillRows = [][]any{
	{120.6, "E-75", 75000.0, 517.0, 127.0, 3.4, 9.0, 0.8, 29.0, 0.85, 1.2},
	{165.1, "X-95", 95000.0, 655.0, 127.0, 3.4, 9.0, 0.8, 29.0, 0.83, 1.3},
	{203.2, "G-105", 105000.0, 724.0, "", "", "", "", "", "", ""},
	{228.6, "S-135", 135000.0, 931.0, "", "", "", "", "", "", ""},
	{241.3, "E-75", 75000.0, 517.0, "", "", "", "", "", "", ""},
}

// Casing returns the casing table built from CasingRows.
func Casing() *reftable.CasingTable {
	rows := make([]reftable.Row, 0, len(CasingRows))
	for _, r := range CasingRows {
		rows = append(rows, reftable.Row{
			AtHead:           r[0].(float64),
			AtBody:           r[1].(float64),
			BitSize:          r[2].(float64),
			InternalDiameter: r[3].(float64),
			ExternalPressure: r[4].(float64),
			MetalType:        reftable.ParseMetalType(r[5].(string)),
			TensileStrength:  r[6].(float64),
			UnitWeight:       r[7].(float64),
			Valid:            reftable.AllColumns,
		})
	}
	return reftable.NewCasingTable(rows, reftable.AllColumns)
}

// Drill returns the drill table matching DrillRows.
func Drill() *reftable.DrillTable {
	var grades reftable.GradeTable
	grades.Add("E-75", 75000, 517)
	grades.Add("X-95", 95000, 655)
	grades.Add("G-105", 105000, 724)
	grades.Add("S-135", 135000, 931)
	gamma := []reftable.GammaRow{
		{OuterDiameter: 127, Ap: 3.4, Aip: 9.0, Mp: 0.8, Qp: 29, B: 0.85, Gamma: 1.2},
		{OuterDiameter: 127, Ap: 3.4, Aip: 9.0, Mp: 0.8, Qp: 29, B: 0.83, Gamma: 1.3},
	}
	return reftable.NewDrillTable(Collars, grades, gamma)
}

// Store returns a store holding both fixture tables.
func Store() *reftable.Store {
	return reftable.NewStore(Casing(), Drill())
}

// Workbook writes header and rows to the named sheet of a new workbook.
func Workbook(sheet string, header []any, rows [][]any) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if strings.EqualFold(sheet, "Sheet1") {
		sheet = "Sheet1"
	} else if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	all := append([][]any{header}, rows...)
	for i, r := range all {
		row := r
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f.WriteToBuffer()
}
