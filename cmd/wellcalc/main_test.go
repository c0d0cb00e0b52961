package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Wellbore/internal/reftable/reftabletest"
)

const projectYAML = `project: Well 7
author: Field team
casing:
  initial_dcsg: 177.8
  sections:
    - {multiplier: 1.1, metal_type: N-80, target_depth: 5000}
    - {multiplier: 1.15, metal_type: P-110, target_depth: 1000}
    - {multiplier: 1.2, metal_type: K-55, target_depth: 500}
values:
  K1: 1.1
  K2: 1.05
  K3: 1.1
  dα: 0.0001
  Dep: 0.127
  Dhw: 0.127
  qhw: 0.6
  n: 90
`

func drillValues() string {
	var b strings.Builder
	for i, p := range []string{"10", "1300", "2200"} {
		n := string(rune('1' + i))
		for _, kv := range [][2]string{
			{"WOB", "150"}, {"C", "0.75"}, {"qc", "1.6"}, {"H", "3000"},
			{"Lhw", "100"}, {"qp", "0.3"}, {"γ", "1.2"}, {"P", p},
		} {
			b.WriteString("  " + kv[0] + "_" + n + ": " + kv[1] + "\n")
		}
	}
	return b.String()
}

// workspace writes the workbooks and the project file to a temp dir.
func workspace(t *testing.T, project string) (dir string) {
	t.Helper()
	dir = t.TempDir()
	write := func(name string, data []byte) {
		if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	casing, err := reftabletest.Workbook("Sheet1", reftabletest.CasingHeaders, reftabletest.CasingRows)
	if err != nil {
		t.Fatal(err)
	}
	drill, err := reftabletest.Workbook("Sheet1", reftabletest.DrillHeaders, reftabletest.DrillRows)
	if err != nil {
		t.Fatal(err)
	}
	write("casing.xlsx", casing.Bytes())
	write("drill.xlsx", drill.Bytes())
	write("project.yaml", []byte(project))
	return dir
}

func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("CASING_TABLE", "")
	t.Setenv("DRILL_TABLE", "")
	base := []string{
		"-p", filepath.Join(dir, "project.yaml"),
		"--casing-table", filepath.Join(dir, "casing.xlsx"),
		"--drill-table", filepath.Join(dir, "drill.xlsx"),
		"--env", filepath.Join(dir, "absent.env"),
	}
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append(args, base...))
	err := cmd.Execute()
	return out.String(), err
}

func TestCasingCommand(t *testing.T) {
	dir := workspace(t, projectYAML)
	out, err := run(t, dir, "casing", "--format", "markdown")
	if err != nil {
		t.Fatalf("casing: %v\n%s", err, out)
	}
	// go-pretty may upper-case footers.
	lower := strings.ToLower(out)
	for _, want := range []string{"production", "surface", "215.90 mm", "critical depth for 5000.00", "total"} {
		if !strings.Contains(lower, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCasingCommand_Unreachable(t *testing.T) {
	dir := workspace(t, strings.Replace(projectYAML, "target_depth: 5000", "target_depth: 7000", 1))
	out, err := run(t, dir, "casing")
	if err == nil || !strings.Contains(err.Error(), "casing chain stopped") {
		t.Errorf("expected a stopped chain, got %v\n%s", err, out)
	}
}

func TestDrillCommand(t *testing.T) {
	dir := workspace(t, projectYAML+drillValues())
	out, err := run(t, dir, "drill", "--format", "markdown")
	if err != nil {
		t.Fatalf("drill: %v\n%s", err, out)
	}
	for _, want := range []string{"E-75", "G-105", "S-135"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing grade %q:\n%s", want, out)
		}
	}
}

func TestDrillCommand_NoValues(t *testing.T) {
	dir := workspace(t, "casing:\n  initial_dcsg: 177.8\n")
	if _, err := run(t, dir, "drill"); err == nil {
		t.Error("expected an error without drill values")
	}
}

func TestReportCommand(t *testing.T) {
	dir := workspace(t, projectYAML+drillValues())
	pdf := filepath.Join(dir, "out.pdf")
	if out, err := run(t, dir, "report", "-o", pdf); err != nil {
		t.Fatalf("report: %v\n%s", err, out)
	}
	data, err := os.ReadFile(pdf)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Error("output is not a PDF")
	}
}

func TestMissingCasingTable(t *testing.T) {
	dir := workspace(t, projectYAML)
	t.Setenv("CASING_TABLE", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"casing", "-p", filepath.Join(dir, "project.yaml"), "--env", filepath.Join(dir, "absent.env")})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "--casing-table") {
		t.Errorf("expected a hint about the casing table, got %v", err)
	}
}

func TestLoadProject(t *testing.T) {
	dir := workspace(t, projectYAML)
	in, err := loadProject(filepath.Join(dir, "project.yaml"))
	if err != nil {
		t.Fatalf("loadProject: %v", err)
	}
	if in.Project != "Well 7" || len(in.Casing.Sections) != 3 || in.Values["dα"] != "0.0001" {
		t.Errorf("project = %+v", in)
	}
	if _, err := loadProject(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestAutodesignCommand(t *testing.T) {
	dir := workspace(t, strings.Replace(projectYAML, "metal_type: N-80, ", "", 1))
	out, err := run(t, dir, "autodesign")
	if err != nil {
		t.Fatalf("autodesign: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Recommended: N-80") {
		t.Errorf("output:\n%s", out)
	}
}
