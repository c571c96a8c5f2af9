package table

import (
	"context"
	"errors"
	"io"
)

// ChunkSource yields frames one at a time until io.EOF.
type ChunkSource interface {
	Next() (*Frame, error)
}

// ChunkSink consumes frames, typically writing each one out as a file.
type ChunkSink interface {
	Write(*Frame) error
	Close() error
}

// SliceSource replays a fixed list of frames.
type SliceSource struct {
	frames []*Frame
	pos    int
}

func NewSliceSource(frames ...*Frame) *SliceSource { return &SliceSource{frames: frames} }

func (s *SliceSource) Len() int { return len(s.frames) }

func (s *SliceSource) Next() (*Frame, error) {
	if s.pos >= len(s.frames) {
		return nil, io.EOF
	}
	f := s.frames[s.pos]
	s.pos++
	return f, nil
}

// Progress is told how many chunks have been written so far.
type Progress func(done int)

// RunStream pulls chunks from src, applies the pipeline, and writes to sink.
// Cancellation is checked between chunks only. The sink is always closed.
func RunStream(ctx context.Context, p *Pipeline, src ChunkSource, sink ChunkSink, progress Progress) (err error) {
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	done := 0
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		out, err := p.Run(ctx, f)
		if err != nil {
			return err
		}
		if err := sink.Write(out); err != nil {
			return err
		}
		done++
		if progress != nil {
			progress(done)
		}
	}
}
