package partyhub

import (
	"bytes"
	"image/png"
	"time"

	"golang.org/x/sync/singleflight"
)

// ExportResult is one finished download artifact.
type ExportResult struct {
	PNG      []byte
	Filename string
}

// Exporter rasterizes a playground snapshot at the fixed export
// resolution, independent of whatever scaled preview is on screen.
// Exports are single-flight per key: a second request for the same
// playground while one is rendering waits for and shares the in-flight
// result instead of interleaving on the render path.
type Exporter struct {
	raster *Rasterizer
	width  int
	height int
	group  singleflight.Group
}

// NewExporter creates an Exporter rendering at width x height.
func NewExporter(r *Rasterizer, width, height int) *Exporter {
	return &Exporter{raster: r, width: width, height: height}
}

// Export renders snap to PNG. key identifies the playground for
// single-flight deduplication. persist, when non-nil, runs inside the
// deduplicated call, so callers sharing one render record it exactly
// once. Failures come back as RenderError and leave no state behind:
// the snapshot is a value, so a failed export can simply be retried.
func (e *Exporter) Export(key string, snap Snapshot, persist func(ExportResult)) (ExportResult, error) {
	v, err, _ := e.group.Do(key, func() (any, error) {
		tree := snap.Resolve(CanvasGeometry{Width: e.width, Height: e.height})
		img, err := e.raster.Render(tree)
		if err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, &RenderError{Err: err}
		}
		result := ExportResult{PNG: buf.Bytes(), Filename: ExportFilename(time.Now())}
		if persist != nil {
			persist(result)
		}
		return result, nil
	})
	if err != nil {
		return ExportResult{}, err
	}
	return v.(ExportResult), nil
}
