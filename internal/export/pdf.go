// Package export writes boards to PDF.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"

	"InkBoard/internal/engine"
	"InkBoard/internal/geom"
	"InkBoard/internal/logging"
	"InkBoard/internal/render"
	"InkBoard/internal/state"

	"github.com/gogpu/gg"
	"github.com/jung-kurt/gofpdf"
)

// Document units are pixels at 96 dpi.
const pointsPerUnit = 72.0 / 96.0

const infinitePadding = 32.0

type Options struct {
	// Scale is the raster resolution in pixels per document unit.
	Scale float64
	Title string
}

func DefaultOptions() Options {
	return Options{Scale: 2, Title: "InkBoard"}
}

// Pages splits the document into page areas. Paged layouts use the format
// height; infinite documents become one page around the content.
func Pages(doc engine.Document, snap state.StoreSnapshot) []gg.Rect {
	if doc.Layout == engine.LayoutInfinite {
		var rs []gg.Rect
		for _, e := range snap.Strokes {
			rs = append(rs, e.Stroke.Bounds())
		}
		content, ok := geom.UnionAll(rs)
		if !ok {
			return []gg.Rect{geom.RectXYWH(0, 0, doc.Format.Width, doc.Format.Height)}
		}
		return []gg.Rect{geom.Loosened(content, infinitePadding)}
	}
	pageH := doc.Format.Height
	if pageH <= 0 {
		pageH = doc.Height
	}
	n := max(1, int(math.Ceil(doc.Height/pageH-1e-9)))
	pages := make([]gg.Rect, 0, n)
	for i := 0; i < n; i++ {
		pages = append(pages, geom.RectXYWH(doc.X, doc.Y+float64(i)*pageH, doc.Width, pageH))
	}
	return pages
}

// RasterizePage renders the strokes overlapping area on white.
func RasterizePage(area gg.Rect, snap state.StoreSnapshot, scale float64) *image.RGBA {
	w := max(1, int(math.Ceil(area.Width()*scale)))
	h := max(1, int(math.Ceil(area.Height()*scale)))
	if w > render.MaxSide || h > render.MaxSide {
		scale *= float64(render.MaxSide) / float64(max(w, h))
		w = max(1, min(render.MaxSide, int(math.Ceil(area.Width()*scale))))
		h = max(1, min(render.MaxSide, int(math.Ceil(area.Height()*scale))))
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	for _, e := range snap.Strokes {
		if !geom.Intersects(e.Stroke.Bounds(), area) {
			continue
		}
		imgs, err := e.Stroke.GenImages(area, scale)
		if err != nil {
			logging.Logger().Warn("export: skipping stroke", "kind", e.Stroke.Kind, "err", err)
			continue
		}
		render.Compose(dst, area, scale, imgs)
	}
	return dst
}

// PDF writes one page per document page with the strokes rasterized onto
// it.
func PDF(w io.Writer, doc engine.Document, snap state.StoreSnapshot, opts Options) error {
	if opts.Scale <= 0 {
		opts.Scale = DefaultOptions().Scale
	}
	pages := Pages(doc, snap)
	first := pageSize(pages[0])
	pdf := gofpdf.NewCustom(&gofpdf.InitType{UnitStr: "pt", Size: first})
	pdf.SetCreator("InkBoard", true)
	if opts.Title != "" {
		pdf.SetTitle(opts.Title, true)
	}
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)

	for i, area := range pages {
		size := pageSize(area)
		orientation := "P"
		if size.Wd > size.Ht {
			orientation = "L"
		}
		pdf.AddPageFormat(orientation, size)

		var buf bytes.Buffer
		if err := png.Encode(&buf, RasterizePage(area, snap, opts.Scale)); err != nil {
			return fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		imgOpts := gofpdf.ImageOptions{ImageType: "PNG"}
		pdf.RegisterImageOptionsReader(name, imgOpts, &buf)
		pdf.ImageOptions(name, 0, 0, size.Wd, size.Ht, false, imgOpts, 0, "")
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	logging.Logger().Info("exported pdf", "pages", len(pages))
	return nil
}

func pageSize(area gg.Rect) gofpdf.SizeType {
	return gofpdf.SizeType{Wd: area.Width() * pointsPerUnit, Ht: area.Height() * pointsPerUnit}
}
