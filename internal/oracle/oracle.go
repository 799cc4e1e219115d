// Package oracle defines the contract of the reference table renderer whose
// output the fixtures record.
package oracle

import (
	"context"

	"github.com/AndreyAkinshin/tabsnap/internal/table"
)

// Oracle renders native tabular data with the given options. It must be
// deterministic: equal inputs yield byte-identical output. Its output is
// recorded as ground truth even when it is wrong.
type Oracle interface {
	Render(ctx context.Context, data any, opts table.Options) (string, error)
}

// Func adapts a function to the Oracle interface.
type Func func(ctx context.Context, data any, opts table.Options) (string, error)

func (f Func) Render(ctx context.Context, data any, opts table.Options) (string, error) {
	return f(ctx, data, opts)
}
