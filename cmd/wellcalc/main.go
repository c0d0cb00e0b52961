// wellcalc runs the casing and drill-string sizing from a YAML project file.
//
// Usage:
//
//	wellcalc casing -p project.yaml [--casing-table casing.xlsx] [--drill-table drill.xlsx]
//	wellcalc drill  -p project.yaml [--format markdown]
//	wellcalc report -p project.yaml -o report.pdf
//	wellcalc autodesign -p project.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
