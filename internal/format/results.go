package format

import (
	"fmt"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/calc/drillstring"
	"Wellbore/internal/calc/had"
)

// MMToInch converts millimetres to inches for display.
const MMToInch = 0.03937

// Num formats a value with two decimals.
func Num(v float64) string { return fmt.Sprintf("%.2f", v) }

// MM formats a diameter in millimetres with its inch equivalent, or "-".
func MM(v float64) string {
	if v == 0 {
		return "-"
	}
	return fmt.Sprintf("%.2f mm (%.2f\")", v, v*MMToInch)
}

// Casing renders the section chain: one row per resolved section.
func Casing(r casing.Result, m Mode) string {
	tb := NewTable(m)
	tb.Header("Section", "Nearest Bit Size", "DCSG", "DCSG'", "Internal Diameter", "Derived Diameter", "Collar")
	for _, s := range r.Sections {
		tb.Row(s.Role.Title(), MM(s.BitSize), MM(s.AtHead), MM(s.AtBody),
			Num(s.InternalDiameter), Num(s.DerivedBitDiameter), MM(s.Collar))
	}
	if r.State == casing.StateFailed {
		tb.Footer("Stopped", r.Reason)
	}
	return tb.String()
}

// HAD renders the candidate ranking with the solved lengths.
func HAD(h *had.Result, m Mode) string {
	tb := NewTable(m)
	tb.Header("Rank", "HAD", "External Pressure", "Metal Type", "Tensile Strength", "Unit Weight", "L-Value")
	tb.Columns(
		ColumnConfig{Number: 1, Align: AlignRight},
		ColumnConfig{Number: 2, Align: AlignRight},
	)
	if h == nil {
		return tb.String()
	}
	for i, c := range h.Candidates {
		l := "-"
		if c.HasLength {
			l = Num(c.Length)
		}
		tb.Row(i+1, Num(c.HAD), Num(c.ExternalPressure), string(c.MetalType),
			Num(c.TensileStrength), Num(c.UnitWeight), l)
	}
	switch {
	case !h.Reachable:
		tb.Footer("", "", "", "", "", "Unreachable", Num(h.TargetDepth))
	case h.Lengths != nil:
		tb.Footer("", "", "", "", "", "Total", Num(h.Lengths.Total()))
	case h.LengthsError != "":
		tb.Footer("", "", "", "", "", "Lengths", h.LengthsError)
	}
	return tb.String()
}

// Drill renders one row per drill-string instance.
func Drill(r drillstring.Result, m Mode) string {
	tb := NewTable(m)
	tb.Header("Instance", "Section", "Source", "L0c", "Lp", "C new", "Metal Grade", "Lmax", "Note")
	for _, in := range r.Instances {
		src, cnew, grade, lmax := "-", "-", "-", "-"
		if in.Source != nil {
			src = in.Source.Kind.String()
		}
		if in.Loads != nil {
			cnew, grade, lmax = Num(in.Loads.CNew), in.Loads.Grade, Num(in.Loads.Lmax)
		}
		if in.Error != "" {
			tb.Row(in.Index, in.Role.Title(), src, "-", "-", cnew, grade, lmax, in.Error)
			continue
		}
		tb.Row(in.Index, in.Role.Title(), src, Num(in.L0c), Num(in.Lp), cnew, grade, lmax, in.Note)
	}
	return tb.String()
}
