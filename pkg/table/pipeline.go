package table

import (
	"context"
	"fmt"
)

// Transform rewrites or checks a Frame. Transforms run on a loaded table
// before it is split, and on every chunk before it is written.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	steps []Transform
}

func NewPipeline(steps ...Transform) *Pipeline { return &Pipeline{steps: steps} }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

func (p *Pipeline) Len() int {
	if p == nil {
		return 0
	}
	return len(p.steps)
}

// Run applies every step in order. A nil pipeline returns f unchanged.
func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	if p == nil {
		return f, nil
	}
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := t.Apply(ctx, cur)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.Name(), err)
		}
		cur = out
	}
	return cur, nil
}
