package state

import (
	"context"

	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/strokes"

	"github.com/gogpu/gg"
)

// ImageGenerator turns a stroke into images for a viewport and scale.
// It is called from worker goroutines with a private copy of the stroke.
type ImageGenerator interface {
	GenImages(st *strokes.Stroke, viewport gg.Rect, scale float64) ([]render.Image, error)
}

// StrokeImages renders with the strokes' own rasterizers.
type StrokeImages struct{}

func (StrokeImages) GenImages(st *strokes.Stroke, viewport gg.Rect, scale float64) ([]render.Image, error) {
	return st.GenImages(viewport, scale)
}

// RegenerateRenderingInViewportThreaded starts render jobs for the visible
// strokes inside viewport that need new images, or all of them when force
// is set. Strokes outside the viewport drop their images.
func (s *Store) RegenerateRenderingInViewportThreaded(pool *render.Pool, tasks *TaskQueue, force bool, viewport gg.Rect, scale float64) {
	for _, k := range s.UntrashedKeys() {
		r := s.render[k]
		if !r.Render {
			continue
		}
		if !geom.Intersects(s.strokes[k].stroke.Bounds(), viewport) {
			if len(r.Images) > 0 || r.State != RenderDirty {
				r.Images = nil
				r.invalidate()
			}
			continue
		}
		if force || r.State == RenderDirty {
			s.spawnRenderJob(pool, tasks, k, viewport, scale)
		}
	}
}

// RegenerateRenderingForStrokesThreaded starts render jobs for keys
// regardless of their cache state.
func (s *Store) RegenerateRenderingForStrokesThreaded(pool *render.Pool, tasks *TaskQueue, keys []Handle, viewport gg.Rect, scale float64) {
	for _, k := range s.existing(keys) {
		s.spawnRenderJob(pool, tasks, k, viewport, scale)
	}
}

// RegenerateRenderingForStroke renders key synchronously.
func (s *Store) RegenerateRenderingForStroke(key Handle, viewport gg.Rect, scale float64) error {
	e, ok := s.strokes[key]
	if !ok {
		return nil
	}
	r := s.render[key]
	images, err := s.Generator.GenImages(e.stroke, viewport, scale)
	if err != nil {
		r.invalidate()
		return err
	}
	r.Images = images
	r.State = RenderReady
	return nil
}

func (s *Store) spawnRenderJob(pool *render.Pool, tasks *TaskQueue, key Handle, viewport gg.Rect, scale float64) {
	r := s.render[key]
	st := s.strokes[key].stroke.Clone()
	version := r.Version
	gen := s.Generator
	r.State = RenderBusy
	started := pool.Go(func(ctx context.Context) {
		if ctx.Err() != nil {
			_ = tasks.Send(Task{Kind: TaskRenderFailed, Key: key, Version: version})
			return
		}
		images, err := gen.GenImages(st, viewport, scale)
		if err != nil {
			logging.Logger().Warn("render job failed", "stroke", key, "err", err)
			_ = tasks.Send(Task{Kind: TaskRenderFailed, Key: key, Version: version})
			return
		}
		_ = tasks.Send(Task{Kind: TaskUpdateStrokeWithImages, Key: key, Images: images, Version: version})
	})
	if !started {
		r.State = RenderDirty
	}
}

// ProcessReceivedTask applies a task from a render job. Tasks for unknown
// strokes are ignored. It reports true for TaskQuit.
func (s *Store) ProcessReceivedTask(t Task) (quit bool) {
	if t.Kind == TaskQuit {
		return true
	}
	r, ok := s.render[t.Key]
	if !ok {
		logging.Logger().Debug("dropping task for removed stroke", "stroke", t.Key)
		return false
	}
	switch t.Kind {
	case TaskUpdateStrokeWithImages:
		r.Images = t.Images
		if t.Version == r.Version {
			r.State = RenderReady
		} else {
			r.State = RenderDirty
		}
	case TaskAppendImagesToStroke:
		r.Images = append(r.Images, t.Images...)
	case TaskRenderFailed:
		if t.Version == r.Version && r.State == RenderBusy {
			r.State = RenderDirty
		}
	}
	return false
}
