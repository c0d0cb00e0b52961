package drillstring

import (
	"errors"
	"fmt"

	"Wellbore/internal/formstate"
	"Wellbore/internal/reftable"
)

// Instances is the number of independent parameter sets on the form.
const Instances = 3

// RequiredFields must be filled for every instance before anything runs.
var RequiredFields = []string{"WOB", "C", "qc", "H", "Lhw", "qp", "P", "γ"}

// SharedFields are the constants common to all instances.
var SharedFields = []string{"K1", "K2", "K3", "dα", "Dep", "Dhw", "qhw", "n"}

var (
	ErrNoGammaData   = errors.New("no data for γ")
	ErrInstanceCount = errors.New("wrong number of instances")
)

// positive lists the fields that must be greater than zero. An omitted
// structured value decodes to 0 and is caught here as well.
var positive = map[string]bool{"WOB": true, "C": true, "qc": true, "H": true, "qp": true, "γ": true}

type Shared struct {
	K1     float64 `json:"k1" yaml:"k1"`
	K2     float64 `json:"k2" yaml:"k2"`
	K3     float64 `json:"k3" yaml:"k3"`
	DAlpha float64 `json:"d_alpha" yaml:"d_alpha"`
	Dep    float64 `json:"dep" yaml:"dep"`
	Dhw    float64 `json:"dhw" yaml:"dhw"`
	Qhw    float64 `json:"qhw" yaml:"qhw"`
	N      float64 `json:"n" yaml:"n"`
}

// Manual holds coefficients typed in when the γ lookup has no row.
type Manual struct {
	B  float64 `json:"b" yaml:"b"`
	Mp float64 `json:"mp" yaml:"mp"`
}

type Instance struct {
	Index  int      `json:"index" yaml:"index"`
	WOB    float64  `json:"wob" yaml:"wob"`
	C      float64  `json:"c" yaml:"c"`
	Qc     float64  `json:"qc" yaml:"qc"`
	Qp     float64  `json:"qp" yaml:"qp"`
	Lhw    *float64 `json:"lhw" yaml:"lhw"`
	P      *float64 `json:"p" yaml:"p"`
	Gamma  float64  `json:"gamma" yaml:"gamma"`
	H      float64  `json:"h" yaml:"h"`
	Manual *Manual  `json:"manual,omitempty" yaml:"manual,omitempty"`

	// Err is set when one of the instance's own fields is unparsable or out of range.
	Err error `json:"-" yaml:"-"`
}

// field returns the instance value behind a RequiredFields name; nil when
// the value was never given.
func (inst *Instance) field(name string) *float64 {
	switch name {
	case "WOB":
		return &inst.WOB
	case "C":
		return &inst.C
	case "qc":
		return &inst.Qc
	case "H":
		return &inst.H
	case "Lhw":
		return inst.Lhw
	case "qp":
		return &inst.Qp
	case "P":
		return inst.P
	case "γ":
		return &inst.Gamma
	}
	return nil
}

// check returns the first required field that is missing or not positive.
func (inst Instance) check(index int) error {
	for _, f := range RequiredFields {
		x := inst.field(f)
		switch {
		case x == nil:
			return &formstate.FieldError{Field: f, Instance: index, Err: formstate.ErrEmpty}
		case positive[f] && !(*x > 0):
			return &formstate.FieldError{Field: f, Instance: index, Err: formstate.ErrNotPositive}
		}
	}
	return nil
}

type Input struct {
	Shared    Shared     `json:"shared" yaml:"shared"`
	Instances []Instance `json:"instances" yaml:"instances"`
}

// Validate applies the checks ParseForm makes on raw values to an already
// structured input: exactly Instances parameter sets, every shared constant
// above zero and every required field given. Instances that carry their own
// parse error are left to fail alone.
func (in Input) Validate() error {
	if len(in.Instances) != Instances {
		return fmt.Errorf("%w: got %d, want %d", ErrInstanceCount, len(in.Instances), Instances)
	}
	shared := []float64{
		in.Shared.K1, in.Shared.K2, in.Shared.K3, in.Shared.DAlpha,
		in.Shared.Dep, in.Shared.Dhw, in.Shared.Qhw, in.Shared.N,
	}
	for i, f := range SharedFields {
		if !(shared[i] > 0) {
			return &formstate.FieldError{Field: f, Err: formstate.ErrNotPositive}
		}
	}
	for i, inst := range in.Instances {
		if inst.Err != nil {
			continue
		}
		if err := inst.check(indexOf(inst, i)); err != nil {
			return err
		}
	}
	return nil
}

func indexOf(inst Instance, i int) int {
	if inst.Index != 0 {
		return inst.Index
	}
	return i + 1
}

// ParseForm reads Instances parameter sets from flat form values.
//
// A gap in RequiredFields or an unparsable shared constant aborts the whole
// batch. A non-numeric value in one instance only marks that instance.
func ParseForm(v formstate.Values) (Input, error) {
	var in Input
	if err := v.Require(RequiredFields, Instances); err != nil {
		return in, err
	}

	shared := []*float64{
		&in.Shared.K1, &in.Shared.K2, &in.Shared.K3, &in.Shared.DAlpha,
		&in.Shared.Dep, &in.Shared.Dhw, &in.Shared.Qhw, &in.Shared.N,
	}
	for i, f := range SharedFields {
		x, err := v.Float(f, 0)
		if err != nil {
			return in, err
		}
		*shared[i] = x
	}

	for i := 1; i <= Instances; i++ {
		in.Instances = append(in.Instances, parseInstance(v, i))
	}
	return in, nil
}

func parseInstance(v formstate.Values, i int) Instance {
	inst := Instance{Index: i, Lhw: new(float64), P: new(float64)}
	for _, f := range RequiredFields {
		x, err := v.Float(f, i)
		if err != nil {
			inst.Err = err
			return inst
		}
		*inst.field(f) = x
	}
	if err := inst.check(i); err != nil {
		inst.Err = err
		return inst
	}

	if v.Has("b", i) || v.Has("Mp", i) {
		b, err := v.Float("b", i)
		if err != nil {
			inst.Err = err
			return inst
		}
		mp, err := v.Float("Mp", i)
		if err != nil {
			inst.Err = err
			return inst
		}
		inst.Manual = &Manual{B: b, Mp: mp}
	}
	return inst
}

type SourceKind int

const (
	FromTable SourceKind = iota
	FromManual
)

func (k SourceKind) String() string {
	if k == FromManual {
		return "manual"
	}
	return "table"
}

func (k SourceKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *SourceKind) UnmarshalText(b []byte) error {
	switch string(b) {
	case "table":
		*k = FromTable
	case "manual":
		*k = FromManual
	default:
		return fmt.Errorf("unknown coefficient source %q", b)
	}
	return nil
}

// Source is where an instance's b and Mp came from. Row is set only for
// FromTable.
type Source struct {
	Kind SourceKind         `json:"kind"`
	B    float64            `json:"b"`
	Mp   float64            `json:"mp"`
	Row  *reftable.GammaRow `json:"row,omitempty"`
}

// Resolve looks γ up in the table and falls back to the instance's manual
// coefficients. table may be nil.
func Resolve(inst Instance, table *reftable.DrillTable) (Source, error) {
	var lookupErr error = reftable.ErrNotLoaded
	if table != nil {
		row, err := table.LookupGamma(inst.Gamma)
		if err == nil {
			return Source{Kind: FromTable, B: row.B, Mp: row.Mp, Row: &row}, nil
		}
		lookupErr = err
	}
	if inst.Manual != nil {
		return Source{Kind: FromManual, B: inst.Manual.B, Mp: inst.Manual.Mp}, nil
	}
	return Source{}, fmt.Errorf("%w %g: %w", ErrNoGammaData, inst.Gamma, lookupErr)
}
