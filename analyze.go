package main

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chuhlomin/docxstyle/internal/wordml"
)

// analysis is the result of analyzing one or more source documents. It is
// also the file format read by "apply --from-analysis".
type analysis struct {
	Sources []string              `json:"sources" yaml:"sources" toml:"sources"`
	Mode    string                `json:"mode" yaml:"mode" toml:"mode"`
	Weight  string                `json:"weight,omitempty" yaml:"weight,omitempty" toml:"weight,omitempty"`
	Styles  []wordml.StyleSummary `json:"styles" yaml:"styles" toml:"styles"`
}

// analyzeSources parses the sources concurrently and merges their tallies
// in argument order.
func analyzeSources(ctx context.Context, paths []string, c config) (*analysis, error) {
	opts := c.analyzeOptions()
	tallies := make([]*wordml.Tally, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.Workers)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			t, err := analyzeFile(path, opts)
			if err != nil {
				return errors.Wrapf(err, "analyze %s", path)
			}
			tallies[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := wordml.NewTally()
	for _, t := range tallies {
		total.Merge(t)
	}

	a := &analysis{
		Sources: paths,
		Mode:    c.Mode,
		Styles:  total.Summaries(),
	}
	if opts.Mode == wordml.ModeDocument {
		a.Weight = c.Weight
	}
	return a, nil
}

func analyzeFile(path string, opts wordml.Options) (*wordml.Tally, error) {
	p, err := wordml.Open(path)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	t, err := wordml.Analyze(p, opts)
	if err != nil {
		return nil, err
	}

	logger.Debug("Analyzed",
		zap.String("source", path),
		zap.String("mode", string(opts.Mode)),
		zap.Int("styles", len(t.Styles())),
	)
	return t, nil
}
