// Package drillstring selects the drill-pipe metal grade and the maximum
// free length of each drill-string instance from its tension and torque.
package drillstring

import (
	"context"
	"errors"
	"fmt"
	"math"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"

	"golang.org/x/sync/errgroup"
)

const (
	tensionWeightFactor = 1.08
	bitPowerFactor      = 3.2e-2
	torqueFactor        = 30
	designFactor        = 1.5
	steelDensity        = 7.85
	mudDensity          = 1.5
)

var (
	ErrNoDiameters      = errors.New("no bit size or collar diameter for the section")
	ErrNegativeRadicand = errors.New("shear stress exceeds the grade strength")
	ErrNotFinite        = errors.New("result is not a finite number")
)

// Diameters exposes the section sizes selected by the casing chain.
type Diameters interface {
	Diameters(role casing.SectionRole) (bit, collar float64, ok bool)
}

// Loads are the tension, torque and grade results of an instance whose
// coefficients came from the γ table.
type Loads struct {
	Ap       float64 `json:"ap"`
	Aip      float64 `json:"aip"`
	T        float64 `json:"t"`
	Tc       float64 `json:"tc"`
	Tec      float64 `json:"tec"`
	BitSize  float64 `json:"bit_size"`
	Collar   float64 `json:"collar"`
	Np       float64 `json:"np"`
	NB       float64 `json:"nb"`
	Tau      float64 `json:"tau"`
	Eq       float64 `json:"eq"`
	CNew     float64 `json:"c_new"`
	Grade    string  `json:"grade"`
	GradeMPI float64 `json:"grade_mpi"`
	Lmax     float64 `json:"lmax"`
}

type InstanceResult struct {
	Index  int                `json:"index"`
	Role   casing.SectionRole `json:"role"`
	Source *Source            `json:"source,omitempty"`
	L0c    float64            `json:"l0c"`
	Lp     float64            `json:"lp"`
	Loads  *Loads             `json:"loads,omitempty"`
	Note   string             `json:"note,omitempty"`
	Error  string             `json:"error,omitempty"`
	Err    error              `json:"-"`
}

// OK reports whether the instance produced results.
func (r InstanceResult) OK() bool { return r.Err == nil }

type Result struct {
	Instances []InstanceResult `json:"instances"`
}

// Calculate evaluates every instance concurrently. Instance failures are
// recorded on their own result and never stop the others. table and d may
// be nil; instances that need them then fail.
func Calculate(ctx context.Context, in Input, table *reftable.DrillTable, d Diameters) (Result, error) {
	logger := logging.New("drillstring")
	res := Result{Instances: make([]InstanceResult, len(in.Instances))}

	g, ctx := errgroup.WithContext(ctx)
	for i, inst := range in.Instances {
		i, inst := i, inst
		if inst.Index == 0 {
			inst.Index = i + 1
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r := compute(inst, in.Shared, table, d)
			if r.Err != nil {
				r.Error = r.Err.Error()
				logger.Warn("instance skipped", "instance", r.Index, "err", r.Err)
			} else if r.Loads != nil {
				logger.Info("grade selected", "instance", r.Index, "grade", r.Loads.Grade,
					"c_new", r.Loads.CNew, "lmax", r.Loads.Lmax)
			}
			res.Instances[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func compute(inst Instance, sh Shared, table *reftable.DrillTable, d Diameters) InstanceResult {
	out := InstanceResult{Index: inst.Index}
	out.Role, _ = casing.RoleForInstance(inst.Index)
	fail := func(err error) InstanceResult {
		out.Err = fmt.Errorf("instance %d: %w", inst.Index, err)
		return out
	}
	if inst.Err != nil {
		return fail(inst.Err)
	}
	if err := inst.check(inst.Index); err != nil {
		return fail(err)
	}

	src, err := Resolve(inst, table)
	if err != nil {
		return fail(err)
	}
	out.Source = &src

	out.L0c = inst.WOB / (inst.C * inst.Qc * src.B)
	out.Lp = inst.H - (*inst.Lhw + out.L0c)
	if !finite(out.L0c, out.Lp) {
		return fail(ErrNotFinite)
	}
	if src.Kind == FromManual {
		out.Note = fmt.Sprintf("%v %g", ErrNoGammaData, inst.Gamma)
		return out
	}

	if d == nil {
		return fail(ErrNoDiameters)
	}
	bit, collar, ok := d.Diameters(out.Role)
	if !ok {
		return fail(fmt.Errorf("%s: %w", out.Role, ErrNoDiameters))
	}

	l, err := loads(inst, sh, src, out.L0c, out.Lp, bit, collar, table.Grades())
	if err != nil {
		return fail(err)
	}
	out.Loads = &l
	return out
}

func loads(inst Instance, sh Shared, src Source, l0c, lp, bit, collar float64, grades reftable.GradeTable) (Loads, error) {
	l := Loads{Ap: src.Row.Ap, Aip: src.Row.Aip, BitSize: bit, Collar: collar}
	lhw, p := *inst.Lhw, *inst.P

	l.T = (tensionWeightFactor*lp*inst.Qp + lhw*sh.Qhw + l0c*inst.Qc) * src.B / l.Ap
	l.Tc = l.T + p*(l.Aip/l.Ap)
	l.Tec = l.Tc * sh.K1 * sh.K2 * sh.K3

	dec := collar / 1000
	l.Np = sh.DAlpha * inst.Gamma *
		(lp*sh.Dep*sh.Dep + l0c*dec*dec + lhw*sh.Dhw*sh.Dhw) * math.Pow(sh.N, 1.7)

	db := bit / 1000
	l.NB = bitPowerFactor * math.Sqrt(inst.WOB) * math.Pow(db, 1.75) * sh.N

	l.Tau = torqueFactor * ((l.Np + l.NB) * 1e3 / (math.Pi * sh.N * src.Mp)) * 1e-6
	l.Eq = math.Sqrt(math.Pow(l.Tec*0.1, 2) + 4*l.Tau*l.Tau)
	l.CNew = l.Eq * designFactor
	if !finite(l.T, l.Tc, l.Tec, l.Np, l.NB, l.Tau, l.CNew) {
		return l, ErrNotFinite
	}

	grade, mpi, err := grades.Nearest(l.CNew)
	if err != nil {
		return l, err
	}
	l.Grade, l.GradeMPI = grade, mpi

	radicand := (math.Pow(mpi/designFactor, 2) - 4*l.Tau*l.Tau) * 1e12 /
		(math.Pow(steelDensity-mudDensity, 2) * 1e8)
	if radicand < 0 {
		return l, fmt.Errorf("%w (grade %s)", ErrNegativeRadicand, grade)
	}
	l.Lmax = math.Sqrt(radicand) - (l0c*inst.Qc+lhw*sh.Qhw)/inst.Qp
	if !finite(l.Lmax) {
		return l, ErrNotFinite
	}
	return l, nil
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
