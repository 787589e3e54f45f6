package index

import (
	"context"
	"fmt"
)

// EventKind is the kind of change a host reports for a document.
type EventKind int

const (
	Created EventKind = iota
	Modified
	Deleted
	Renamed
)

func (k EventKind) String() string {
	switch k {
	case Created:
		return "created"
	case Modified:
		return "modified"
	case Deleted:
		return "deleted"
	case Renamed:
		return "renamed"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one change notification. OldPath is only set for Renamed.
type Event struct {
	Kind    EventKind
	Path    string
	OldPath string
}

// HandleEvent applies one change notification. Events must be delivered in
// order; the index does not reorder them.
func (ix *Index) HandleEvent(ctx context.Context, ev Event) error {
	ix.log.Debug().Stringer("kind", ev.Kind).Str("path", ev.Path).Str("old_path", ev.OldPath).Msg("event")

	switch ev.Kind {
	case Created:
		return ix.refresh(ctx, ev.Path)
	case Modified:
		if !ix.parseOnSave {
			return nil
		}
		return ix.refresh(ctx, ev.Path)
	case Deleted:
		ix.Remove(ev.Path)
		return nil
	case Renamed:
		if ev.OldPath != "" {
			ix.Remove(ev.OldPath)
		}
		return ix.refresh(ctx, ev.Path)
	default:
		return fmt.Errorf("unknown event kind %v", ev.Kind)
	}
}

// refresh classifies path and indexes it when eligible. A document that is
// no longer eligible loses its stale entry.
func (ix *Index) refresh(ctx context.Context, path string) error {
	text, err := ix.src.ReadText(ctx, path)
	if err != nil {
		ix.log.Warn().Err(err).Str("path", path).Msg("read failed")
		return fmt.Errorf("read %s: %w", path, err)
	}
	if !Classify(text) {
		ix.Remove(path)
		return nil
	}
	return ix.indexText(path, text)
}
