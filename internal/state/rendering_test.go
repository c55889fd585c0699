package state

import (
	"context"
	"errors"
	"image"
	"sync/atomic"
	"testing"
	"time"

	"InkBoard/internal/geom"
	"InkBoard/internal/render"
	"InkBoard/internal/strokes"

	"github.com/gogpu/gg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGen struct {
	calls atomic.Int32
	err   error
}

func (f *fakeGen) GenImages(st *strokes.Stroke, _ gg.Rect, _ float64) ([]render.Image, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return []render.Image{{Bounds: st.Bounds(), Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1))}}, nil
}

func drain(t *testing.T, s *Store, q *TaskQueue, pool *render.Pool) {
	t.Helper()
	pool.Wait()
	for {
		task, ok := q.TryRecv()
		if !ok {
			return
		}
		s.ProcessReceivedTask(task)
	}
}

func TestRegenerateInViewport(t *testing.T) {
	s := NewStore()
	gen := &fakeGen{}
	s.Generator = gen
	pool := render.NewPool(2)
	defer pool.Close()
	q := NewTaskQueue()

	in := s.Insert(line(0, 0, 10, 10))
	out := s.Insert(line(500, 500, 510, 510))
	viewport := geom.RectXYWH(-20, -20, 100, 100)

	s.RegenerateRenderingInViewportThreaded(pool, q, false, viewport, 1)
	drain(t, s, q, pool)

	r, _ := s.RenderComp(in)
	assert.Equal(t, RenderReady, r.State)
	assert.Len(t, r.Images, 1)
	r, _ = s.RenderComp(out)
	assert.Equal(t, RenderDirty, r.State)
	assert.Equal(t, int32(1), gen.calls.Load())

	// ready strokes are skipped unless forced
	s.RegenerateRenderingInViewportThreaded(pool, q, false, viewport, 1)
	drain(t, s, q, pool)
	assert.Equal(t, int32(1), gen.calls.Load())
	s.RegenerateRenderingInViewportThreaded(pool, q, true, viewport, 1)
	drain(t, s, q, pool)
	assert.Equal(t, int32(2), gen.calls.Load())
}

func TestRenderFailureLeavesDirty(t *testing.T) {
	s := NewStore()
	s.Generator = &fakeGen{err: errors.New("boom")}
	pool := render.NewPool(1)
	defer pool.Close()
	q := NewTaskQueue()

	a := s.Insert(line(0, 0, 10, 10))
	s.RegenerateRenderingForStrokesThreaded(pool, q, []Handle{a}, everywhere, 1)
	r, _ := s.RenderComp(a)
	assert.Equal(t, RenderBusy, r.State)
	drain(t, s, q, pool)
	assert.Equal(t, RenderDirty, r.State)
	assert.Empty(t, r.Images)
}

func TestStaleRenderResult(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 10))
	r, _ := s.RenderComp(a)
	version := r.Version
	s.RotateStrokes([]Handle{a}, 1, gg.Pt(0, 0))

	img := render.Image{Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1))}
	assert.False(t, s.ProcessReceivedTask(Task{Kind: TaskUpdateStrokeWithImages, Key: a, Images: []render.Image{img}, Version: version}))
	assert.Len(t, r.Images, 1)
	assert.Equal(t, RenderDirty, r.State)
}

func TestProcessReceivedTask(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 10))
	img := render.Image{Pixels: image.NewRGBA(image.Rect(0, 0, 1, 1))}

	s.Remove(a)
	assert.False(t, s.ProcessReceivedTask(Task{Kind: TaskUpdateStrokeWithImages, Key: a, Images: []render.Image{img}}))

	b := s.Insert(line(0, 0, 10, 10))
	s.ProcessReceivedTask(Task{Kind: TaskAppendImagesToStroke, Key: b, Images: []render.Image{img}})
	s.ProcessReceivedTask(Task{Kind: TaskAppendImagesToStroke, Key: b, Images: []render.Image{img}})
	r, _ := s.RenderComp(b)
	assert.Len(t, r.Images, 2)

	assert.True(t, s.ProcessReceivedTask(Task{Kind: TaskQuit}))
}

func TestTaskQueue(t *testing.T) {
	q := NewTaskQueue()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := q.Recv(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	done := make(chan Task)
	go func() {
		task, err := q.Recv(context.Background())
		if err == nil {
			done <- task
		}
		close(done)
	}()
	require.NoError(t, q.Send(Task{Kind: TaskQuit}))
	select {
	case task := <-done:
		assert.Equal(t, TaskQuit, task.Kind)
	case <-time.After(time.Second):
		t.Fatal("Recv did not wake up")
	}

	require.NoError(t, q.Send(Task{Kind: TaskRenderFailed}))
	q.Close()
	assert.ErrorIs(t, q.Send(Task{}), ErrQueueClosed)
	task, err := q.Recv(context.Background())
	require.NoError(t, err)
	assert.Equal(t, TaskRenderFailed, task.Kind)
	_, err = q.Recv(context.Background())
	assert.ErrorIs(t, err, ErrQueueClosed)
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := NewStore()
	a := s.Insert(line(0, 0, 10, 10))
	b := s.Insert(line(5, 5, 15, 15))
	c := s.Insert(line(9, 9, 19, 19))
	s.UpdateChronoToLast([]Handle{a})
	s.SetTrashed([]Handle{b}, true)

	snap := s.TakeSnapshot()
	require.Len(t, snap.Strokes, 2)
	assert.Less(t, snap.Strokes[0].Chrono, snap.Strokes[1].Chrono)

	other := NewStore()
	keys := other.ImportSnapshot(snap)
	require.Len(t, keys, 2)
	assert.Equal(t, keys, other.KeysAsRendered())
	cb, _ := s.Get(c)
	first, _ := other.Get(keys[0])
	assert.Equal(t, cb.Bounds(), first.Bounds())
	assert.Equal(t, s.ChronoCounter(), other.ChronoCounter())
	assert.False(t, other.CanUndo())

	next := other.Insert(line(0, 0, 1, 1))
	assert.Greater(t, other.chrono[next].T, snap.ChronoCounter)
}

func TestImportSnapshotRepairsChronology(t *testing.T) {
	s := NewStore()
	keys := s.ImportSnapshot(StoreSnapshot{Strokes: []SnapshotEntry{
		{Chrono: 3, Stroke: line(0, 0, 1, 1)},
		{Chrono: 3, Stroke: line(0, 0, 2, 2)},
		{Chrono: 0, Stroke: line(0, 0, 3, 3)},
		{Chrono: 9},
	}})
	require.Len(t, keys, 3)
	require.NoError(t, s.verify())
	assert.Equal(t, keys, s.Keys())
}
