// Package batch runs several casing scenarios against one table snapshot.
package batch

import (
	"context"
	"errors"
	"fmt"

	"Wellbore/internal/calc/casing"
	"Wellbore/internal/reftable"

	"golang.org/x/sync/errgroup"
)

const (
	MaxItems    = 50
	parallelism = 4
)

var ErrNoItems = errors.New("no items")

type Input struct {
	Items []casing.Input `json:"items"`
}

// Item is the outcome of one scenario. Error is set when the scenario's input
// was rejected; a chain that stopped is reported through Result.State.
type Item struct {
	Result *casing.Result `json:"result,omitempty"`
	Error  string         `json:"error,omitempty"`
	Err    error          `json:"-"`
}

type Result struct {
	Results []Item `json:"results"`
}

// Calculate evaluates every scenario. All of them see the same tables even if
// the provider is updated meanwhile.
func Calculate(ctx context.Context, p reftable.Provider, in Input) (Result, error) {
	if len(in.Items) == 0 {
		return Result{}, ErrNoItems
	}
	if len(in.Items) > MaxItems {
		return Result{}, fmt.Errorf("%d items, at most %d allowed", len(in.Items), MaxItems)
	}
	snap, err := Snapshot(p)
	if err != nil {
		return Result{}, err
	}

	out := Result{Results: make([]Item, len(in.Items))}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, item := range in.Items {
		i, item := i, item
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := casing.Run(snap, item)
			if err != nil {
				out.Results[i] = Item{Error: err.Error(), Err: err}
				return nil
			}
			out.Results[i] = Item{Result: &res}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	return out, nil
}

// Snapshot pins the provider's current tables. The casing table is required.
func Snapshot(p reftable.Provider) (reftable.Provider, error) {
	snap := reftable.Pin(p)
	if _, err := snap.Casing(); err != nil {
		return nil, err
	}
	if _, err := snap.Drill(); err != nil && !errors.Is(err, reftable.ErrNotLoaded) {
		return nil, err
	}
	return snap, nil
}
