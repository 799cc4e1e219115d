package snapshot

import (
	"context"
	"fmt"

	"github.com/AndreyAkinshin/tabsnap/internal/canon"
	"github.com/AndreyAkinshin/tabsnap/internal/catalog"
	"github.com/AndreyAkinshin/tabsnap/internal/errors"
	"github.com/AndreyAkinshin/tabsnap/internal/logger"
	"github.com/AndreyAkinshin/tabsnap/internal/normalize"
	"github.com/AndreyAkinshin/tabsnap/internal/oracle"
)

// Assembler renders every case of a catalog through an oracle.
type Assembler struct {
	Oracle oracle.Oracle
	Logger logger.Logger
	// VerifyDeterminism renders each case twice and fails when the outputs
	// differ.
	VerifyDeterminism bool
}

// Assemble processes cases sequentially in catalog order. The first failure
// aborts the run and no store is returned.
func (a *Assembler) Assemble(ctx context.Context, cat *catalog.Catalog) (*Store, error) {
	log := a.Logger
	if log == nil {
		log = logger.Discard()
	}

	store := NewStore()
	for _, c := range cat.All() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap, err := a.assemble(ctx, c)
		if err != nil {
			return nil, errors.ForCase(c.Name, err)
		}
		log.Debug("case rendered", "case", c.Name, "shape", shape(c), "bytes", len(snap.Output))
		store.Insert(c.Name, snap)
	}
	return store, nil
}

func (a *Assembler) assemble(ctx context.Context, c catalog.Case) (Snapshot, error) {
	if c.Data == nil && c.Override == nil {
		return Snapshot{}, errors.MissingData(c.Name)
	}

	var data canon.Value
	native := c.Data
	if c.Override != nil {
		data = *c.Override
		if native == nil {
			native = c.Override.Interface()
		}
	} else {
		var err error
		if data, err = normalize.Data(c.Data); err != nil {
			return Snapshot{}, err
		}
	}

	kwargs, err := normalize.Options(c.Options)
	if err != nil {
		return Snapshot{}, err
	}

	output, err := a.Oracle.Render(ctx, native, c.Options)
	if err != nil {
		return Snapshot{}, errors.OracleInvocation(c.Name, err)
	}
	if a.VerifyDeterminism {
		again, err := a.Oracle.Render(ctx, native, c.Options)
		if err != nil {
			return Snapshot{}, errors.OracleInvocation(c.Name, err)
		}
		if again != output {
			return Snapshot{}, errors.OracleInvocation(c.Name,
				fmt.Errorf("nondeterministic output (%d bytes, then %d bytes)", len(output), len(again)))
		}
	}

	return Snapshot{Data: data, Kwargs: kwargs, Output: output}, nil
}

func shape(c catalog.Case) string {
	if c.Data == nil {
		return "override"
	}
	return normalize.Classify(c.Data)
}
