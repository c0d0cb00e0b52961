package casing

import (
	"errors"
	"fmt"
	"log/slog"

	"Wellbore/internal/calc/had"
	"Wellbore/internal/logging"
	"Wellbore/internal/reftable"

	"github.com/google/uuid"
)

type State int

const (
	StateInit State = iota
	StateResolving
	StateChained
	StateFailed
	StateDone
)

var stateNames = [...]string{"init", "resolving", "chained", "failed", "done"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("state(%d)", int(s))
}

func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *State) UnmarshalText(b []byte) error {
	for i, n := range stateNames {
		if n == string(b) {
			*s = State(i)
			return nil
		}
	}
	return fmt.Errorf("unknown state %q", b)
}

// Terminal reports whether the chain has stopped.
func (s State) Terminal() bool { return s == StateFailed || s == StateDone }

// CollarCatalog rounds an effective diameter to a catalogue collar size.
type CollarCatalog interface {
	NearestCollar(diameter float64) (float64, error)
}

// Iterator advances the section chain one section per Next call.
type Iterator struct {
	table   *reftable.CasingTable
	collars CollarCatalog
	in      Input
	state   State
	index   int
	atHead  float64
	res     Result
	logger  *slog.Logger
}

// NewIterator validates in and prepares a run. collars may be nil, in which
// case sections carry no collar diameter.
func NewIterator(table *reftable.CasingTable, collars CollarCatalog, in Input) (*Iterator, error) {
	in, err := in.Normalize()
	if err != nil {
		return nil, err
	}
	id := uuid.NewString()
	return &Iterator{
		table:   table,
		collars: collars,
		in:      in,
		res:     Result{RunID: id, State: StateInit},
		logger:  logging.New("casing").With("run_id", id),
	}, nil
}

func (it *Iterator) State() State { return it.state }

// Result returns the sections accumulated so far.
func (it *Iterator) Result() Result {
	r := it.res
	r.State = it.state
	r.Sections = append([]SectionResult(nil), it.res.Sections...)
	return r
}

// Next resolves the next section. It returns false once the chain reached
// Failed or Done.
func (it *Iterator) Next() bool {
	if it.state.Terminal() {
		return false
	}
	it.state = StateResolving

	i := it.index
	in := it.in.Sections[i]
	log := it.logger.With("section", in.Role)

	if i == 0 {
		v, err := it.table.ResolveInitialAtHead(it.in.InitialDCSG)
		if err != nil {
			return it.fail(fmt.Errorf("%s: %w: %w", in.Role.Title(), ErrInitialNotFound, err))
		}
		it.atHead = v
	}

	sec := SectionResult{
		Role:               in.Role,
		Multiplier:         in.Multiplier,
		MetalType:          in.MetalType,
		TargetDepth:        in.TargetDepth,
		AtHead:             it.atHead,
		DerivedBitDiameter: in.Multiplier * it.atHead,
	}
	if v, err := it.table.AtBody(it.atHead); err == nil {
		sec.AtBody = v
	}

	bit, id, err := it.table.NearestBitSize(sec.DerivedBitDiameter)
	if err != nil {
		return it.fail(fmt.Errorf("%s: %w: %w", in.Role.Title(), ErrBitSize, err))
	}
	sec.BitSize, sec.InternalDiameter = bit, id

	if it.collars != nil {
		c, err := it.collars.NearestCollar(2*it.atHead - bit)
		if err != nil {
			log.Warn("collar diameter not resolved", "err", err)
		} else {
			sec.Collar = c
		}
	}

	next, nextErr := it.table.LookupByInternalDiameter(id)
	if nextErr == nil {
		sec.NextAtHead = next
	}

	if in.Role == it.in.CriticalRole {
		rows, err := it.table.FindMatchingRows(it.atHead, in.MetalType)
		if err != nil {
			return it.fail(fmt.Errorf("%s: %w", in.Role.Title(), err))
		}
		res := had.Evaluate(in.TargetDepth, rows)
		sec.HAD = &res
		if !res.Reachable {
			it.res.Sections = append(it.res.Sections, sec)
			return it.fail(fmt.Errorf("%s: %w: %.2f with %s",
				in.Role.Title(), ErrUnreachable, in.TargetDepth, in.MetalType))
		}
	}

	it.res.Sections = append(it.res.Sections, sec)
	log.Info("section resolved", "at_head", sec.AtHead, "bit_size", bit,
		"internal_diameter", id, "next_at_head", sec.NextAtHead, "collar", sec.Collar)

	it.index++
	if it.index == len(it.in.Sections) {
		it.state = StateDone
		return false
	}
	if nextErr != nil {
		return it.fail(fmt.Errorf("%s: %w: %w", in.Role.Title(), ErrChainBroken, nextErr))
	}
	it.atHead = next
	it.state = StateChained
	return true
}

func (it *Iterator) fail(err error) bool {
	it.state = StateFailed
	it.res.Err = err
	it.res.Reason = err.Error()
	it.logger.Warn("chain stopped", "sections", len(it.res.Sections), "err", err)
	return false
}

// Run executes the whole chain against the provider's current tables.
// Chain failures are reported in the Result; the error is reserved for
// invalid input and missing casing tables.
func Run(p reftable.Provider, in Input) (Result, error) {
	table, err := p.Casing()
	if err != nil {
		return Result{}, err
	}
	var collars CollarCatalog
	if drill, err := p.Drill(); err == nil {
		collars = drill
	} else if !errors.Is(err, reftable.ErrNotLoaded) {
		return Result{}, err
	}

	it, err := NewIterator(table, collars, in)
	if err != nil {
		return Result{}, err
	}
	for it.Next() {
	}
	return it.Result(), nil
}
