// Package extract gathers model card fragments from the environment a model
// was built in. Each Extractor returns a partial proto-form card; fragments
// are combined with proto merge semantics, so later fragments append to
// repeated fields and overwrite scalars.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-modelcard/pkg/cardpb"
)

// Extractor produces a card fragment. A nil fragment contributes nothing.
type Extractor interface {
	Extract(ctx context.Context) (*cardpb.ModelCard, error)
}

// Func adapts a function to the Extractor interface.
type Func func(ctx context.Context) (*cardpb.ModelCard, error)

func (f Func) Extract(ctx context.Context) (*cardpb.ModelCard, error) {
	return f(ctx)
}

// Static returns an extractor yielding a copy of fragment on every call.
func Static(fragment *cardpb.ModelCard) Extractor {
	frozen := fragment.Clone()
	return Func(func(ctx context.Context) (*cardpb.ModelCard, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return frozen.Clone(), nil
	})
}

// ModelPath records where the model artifact lives.
func ModelPath(path string) Extractor {
	return Func(func(ctx context.Context) (*cardpb.ModelCard, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if path == "" {
			return nil, errors.New("extract: model path is empty")
		}
		return &cardpb.ModelCard{ModelDetails: &cardpb.ModelDetails{Path: cardpb.String(path)}}, nil
	})
}

// Collect runs extractors in order and merges their fragments into a single
// card. The first failure stops collection.
func Collect(ctx context.Context, extractors ...Extractor) (*cardpb.ModelCard, error) {
	out := &cardpb.ModelCard{}
	for i, ex := range extractors {
		if ex == nil {
			continue
		}
		fragment, err := ex.Extract(ctx)
		if err != nil {
			return nil, fmt.Errorf("extract: extractor %d: %w", i, err)
		}
		if err := cardpb.Merge(out, fragment); err != nil {
			return nil, fmt.Errorf("extract: merge fragment %d: %w", i, err)
		}
	}
	return out, nil
}
