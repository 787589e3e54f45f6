package model

// Summary is a kind-agnostic view of any entity, used by the unified
// element listing.
type Summary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Type     string   `json:"type"` // NPC, Location, Thread, Clock, Track, Timer, Event, PC
	Campaign string   `json:"campaign"`
	Tags     []string `json:"tags"`
	Mentions int      `json:"mentions"`
	LastSeen string   `json:"last_seen"`

	// Progress is the thread state, "X/Y (Z%)" for ranged trackers, or the
	// timer value.
	Progress string `json:"progress,omitempty"`

	NavigateTo Location `json:"navigate_to"`
}

func (s Summary) GetID() string       { return s.ID }
func (s Summary) GetKind() string     { return s.Type }
func (s Summary) GetContent() string  { return s.Name }
func (s Summary) GetLocation() string { return s.NavigateTo.String() }

// MetaNoteEntry is a meta note together with where it was written.
type MetaNoteEntry struct {
	Note     Element  `json:"note"`
	Campaign string   `json:"campaign"`
	Location Location `json:"location"`
}

func (m MetaNoteEntry) GetID() string       { return m.Location.String() }
func (m MetaNoteEntry) GetKind() string     { return string(m.Note.Category) }
func (m MetaNoteEntry) GetContent() string  { return m.Note.Content }
func (m MetaNoteEntry) GetLocation() string { return m.Location.String() }

// RandomEventKind distinguishes table lookups from generator output.
type RandomEventKind string

const (
	RandomTable     RandomEventKind = "table"
	RandomGenerator RandomEventKind = "generator"
)

// RandomEvent is a table lookup or generator line with its context.
type RandomEvent struct {
	Kind     RandomEventKind `json:"kind"`
	Element  Element         `json:"element"`
	Campaign string          `json:"campaign"`
	Location Location        `json:"location"`
}

// Source returns the roll (tables) or generator system text.
func (r RandomEvent) Source() string {
	if r.Kind == RandomTable {
		return r.Element.Roll
	}
	return r.Element.System
}

func (r RandomEvent) GetID() string       { return r.Location.String() }
func (r RandomEvent) GetKind() string     { return string(r.Kind) }
func (r RandomEvent) GetContent() string  { return r.Element.Result }
func (r RandomEvent) GetLocation() string { return r.Location.String() }
