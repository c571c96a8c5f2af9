package table

import (
	"context"
	"errors"
	"io"
	"testing"
)

type countRows struct{ seen int }

func (c *countRows) Name() string { return "count" }
func (c *countRows) Apply(ctx context.Context, f *Frame) (*Frame, error) {
	c.seen += f.Rows()
	return f, nil
}

type failing struct{}

func (failing) Name() string { return "failing" }
func (failing) Apply(ctx context.Context, f *Frame) (*Frame, error) {
	return nil, errors.New("boom")
}

type memSink struct {
	frames []*Frame
	closed bool
}

func (m *memSink) Write(f *Frame) error { m.frames = append(m.frames, f); return nil }
func (m *memSink) Close() error         { m.closed = true; return nil }

func TestPipelineRunsInOrder(t *testing.T) {
	f := keyedFrame(t)
	c := &countRows{}
	out, err := NewPipeline(c).Add(c).Run(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if out != f || c.seen != 6 {
		t.Fatalf("unexpected run: seen=%d", c.seen)
	}
	var nilPipe *Pipeline
	if got, _ := nilPipe.Run(context.Background(), f); got != f {
		t.Fatal("nil pipeline must pass frames through")
	}
}

func TestPipelineWrapsStepErrors(t *testing.T) {
	_, err := NewPipeline(failing{}).Run(context.Background(), keyedFrame(t))
	if err == nil || err.Error() != "failing: boom" {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestRunStream(t *testing.T) {
	f := keyedFrame(t)
	src := NewSliceSource(f.Take([]int{0}), f.Take([]int{1, 2}))
	sink := &memSink{}
	var progress []int
	err := RunStream(context.Background(), NewPipeline(), src, sink, func(done int) { progress = append(progress, done) })
	if err != nil {
		t.Fatal(err)
	}
	if len(sink.frames) != 2 || !sink.closed {
		t.Fatalf("sink got %d frames, closed=%v", len(sink.frames), sink.closed)
	}
	if len(progress) != 2 || progress[1] != 2 {
		t.Fatalf("progress %v", progress)
	}
	if _, err := src.Next(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestRunStreamStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &memSink{}
	err := RunStream(ctx, nil, NewSliceSource(keyedFrame(t)), sink, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
	if len(sink.frames) != 0 || !sink.closed {
		t.Fatal("sink must be closed and untouched")
	}
}
