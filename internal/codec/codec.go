// Package codec reads and writes the InkBoard save format, a versioned
// JSON document.
package codec

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"InkBoard/internal/engine"
	"InkBoard/internal/logging"
	"InkBoard/internal/state"
	"InkBoard/internal/strokes"

	"github.com/google/uuid"
)

// Version is the newest format this package writes and reads.
const Version = 1

// ErrUnsupportedVersion is returned for documents written by a newer
// version.
var ErrUnsupportedVersion = errors.New("codec: unsupported version")

type Entry struct {
	Chrono uint32          `json:"chrono"`
	Stroke *strokes.Stroke `json:"stroke"`
}

// Document is the persisted board. Trash, selection and render caches are
// not saved.
type Document struct {
	Version       int             `json:"version"`
	ID            uuid.UUID       `json:"id"`
	Document      engine.Document `json:"document"`
	Strokes       []Entry         `json:"strokes"`
	ChronoCounter uint32          `json:"chrono_counter"`
}

// New builds a document from a store snapshot. A nil id gets a fresh one.
func New(id uuid.UUID, doc engine.Document, snap state.StoreSnapshot) Document {
	if id == uuid.Nil {
		id = uuid.New()
	}
	d := Document{
		Version:       Version,
		ID:            id,
		Document:      doc,
		Strokes:       make([]Entry, 0, len(snap.Strokes)),
		ChronoCounter: snap.ChronoCounter,
	}
	for _, e := range snap.Strokes {
		d.Strokes = append(d.Strokes, Entry{Chrono: e.Chrono, Stroke: e.Stroke})
	}
	return d
}

// Snapshot converts the stroke list back for state.Store.ImportSnapshot.
func (d Document) Snapshot() state.StoreSnapshot {
	snap := state.StoreSnapshot{
		Strokes:       make([]state.SnapshotEntry, 0, len(d.Strokes)),
		ChronoCounter: d.ChronoCounter,
	}
	for _, e := range d.Strokes {
		if e.Stroke == nil {
			continue
		}
		snap.Strokes = append(snap.Strokes, state.SnapshotEntry{Chrono: e.Chrono, Stroke: e.Stroke})
	}
	return snap
}

func Encode(w io.Writer, d Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

// Decode reads a document. Missing fields take their defaults and a
// missing version is read as the current one.
func Decode(r io.Reader) (Document, error) {
	d := Document{Document: engine.NewDocument()}
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	if d.Version > Version {
		return Document{}, fmt.Errorf("%w: %d", ErrUnsupportedVersion, d.Version)
	}
	if d.Version == 0 {
		d.Version = Version
	}
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	logging.Logger().Debug("decoded document", "id", d.ID, "strokes", len(d.Strokes))
	return d, nil
}
