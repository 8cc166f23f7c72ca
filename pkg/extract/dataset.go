package extract

import (
	"context"
	"fmt"

	"github.com/goliatone/go-modelcard/pkg/cardpb"
	"github.com/goliatone/go-modelcard/pkg/graphics"
)

// Plot names an image file to attach to a dataset.
type Plot struct {
	Name string
	Path string
}

// DatasetStats describes one dataset together with plots of its feature
// statistics. Each call appends one entry to model_parameters.data.
type DatasetStats struct {
	Name        string
	Description string
	Link        string
	// Sensitive lists sensitive fields. nil leaves the section out; an empty
	// non-nil slice declares the dataset sensitive without naming fields.
	Sensitive []string
	Plots     []Plot
}

func (d DatasetStats) Extract(ctx context.Context) (*cardpb.ModelCard, error) {
	if d.Name == "" {
		return nil, fmt.Errorf("extract: dataset name is required")
	}
	dataset := &cardpb.Dataset{Name: cardpb.String(d.Name)}
	if d.Description != "" {
		dataset.Description = cardpb.String(d.Description)
	}
	if d.Link != "" {
		dataset.Link = cardpb.String(d.Link)
	}
	if d.Sensitive != nil {
		dataset.Sensitive = &cardpb.SensitiveData{SensitiveData: append([]string{}, d.Sensitive...)}
	}

	if len(d.Plots) > 0 {
		collection := &cardpb.GraphicsCollection{}
		for _, plot := range d.Plots {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			g, err := graphics.FromFile(plot.Name, plot.Path)
			if err != nil {
				return nil, fmt.Errorf("extract: dataset %q: %w", d.Name, err)
			}
			collection.Collection = append(collection.Collection, &cardpb.Graphic{
				Name:  cardpb.String(plot.Name),
				Image: cardpb.String(g.Image.Value()),
			})
		}
		dataset.Graphics = collection
	}

	return &cardpb.ModelCard{ModelParameters: &cardpb.ModelParameters{Data: []*cardpb.Dataset{dataset}}}, nil
}
