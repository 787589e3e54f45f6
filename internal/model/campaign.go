package model

// DefaultTitle is used when a document has neither a title field nor an H1.
const DefaultTitle = "Untitled Campaign"

// Scene is a ### heading inside a session and the notation parsed from its
// fenced blocks.
type Scene struct {
	ID        string    `json:"id"`
	Number    string    `json:"number"` // S1, S2a, T1-S3, ...
	Context   string    `json:"context,omitempty"`
	StartLine int       `json:"start_line"`
	EndLine   int       `json:"end_line"`
	Elements  []Element `json:"elements"`
}

// Session is a "## Session N" heading and the scenes below it.
type Session struct {
	Number    int               `json:"number"`
	Date      string            `json:"date,omitempty"`
	Duration  string            `json:"duration,omitempty"`
	Recap     string            `json:"recap,omitempty"`
	Goals     string            `json:"goals,omitempty"`
	Metadata  map[string]string `json:"metadata"`
	Scenes    []Scene           `json:"scenes"`
	StartLine int               `json:"start_line"`
	EndLine   int               `json:"end_line"`
}

// Label returns the session's display label ("Session N").
func (s *Session) Label() string {
	return SessionLabel(s.Number)
}

// Campaign is the parsed representation of one document. A new Campaign is
// built on every parse; it is never patched in place.
type Campaign struct {
	File        string            `json:"file"`
	Title       string            `json:"title"`
	FrontMatter map[string]string `json:"front_matter"`
	Sessions    []Session         `json:"sessions"`

	NPCs             map[string]*NPC             `json:"npcs"`
	Locations        map[string]*LocationTag     `json:"locations"`
	Threads          map[string]*Thread          `json:"threads"`
	Clocks           map[string]*Tracker         `json:"clocks"`
	Tracks           map[string]*Tracker         `json:"tracks"`
	Timers           map[string]*Tracker         `json:"timers"`
	Events           map[string]*Tracker         `json:"events"`
	PlayerCharacters map[string]*PlayerCharacter `json:"player_characters"`
	References       map[string]*Reference       `json:"references"`
}

// NewCampaign returns a Campaign with all entity tables allocated.
func NewCampaign(file string) *Campaign {
	return &Campaign{
		File:             file,
		FrontMatter:      map[string]string{},
		NPCs:             map[string]*NPC{},
		Locations:        map[string]*LocationTag{},
		Threads:          map[string]*Thread{},
		Clocks:           map[string]*Tracker{},
		Tracks:           map[string]*Tracker{},
		Timers:           map[string]*Tracker{},
		Events:           map[string]*Tracker{},
		PlayerCharacters: map[string]*PlayerCharacter{},
		References:       map[string]*Reference{},
	}
}

// Name returns the campaign title, falling back to DefaultTitle.
func (c *Campaign) Name() string {
	if c.Title == "" {
		return DefaultTitle
	}
	return c.Title
}

// SceneCount returns the number of scenes across all sessions.
func (c *Campaign) SceneCount() int {
	n := 0
	for i := range c.Sessions {
		n += len(c.Sessions[i].Scenes)
	}
	return n
}

// TrackerCount returns the number of clocks, tracks, timers and events.
func (c *Campaign) TrackerCount() int {
	return len(c.Clocks) + len(c.Tracks) + len(c.Timers) + len(c.Events)
}

// Trackers returns clocks, tracks, timers and events in that order, each
// group sorted by identity.
func (c *Campaign) Trackers() []*Tracker {
	out := make([]*Tracker, 0, c.TrackerCount())
	out = append(out, SortedValues(c.Clocks)...)
	out = append(out, SortedValues(c.Tracks)...)
	out = append(out, SortedValues(c.Timers)...)
	out = append(out, SortedValues(c.Events)...)
	return out
}

// WalkElements calls fn for every element in document order.
func (c *Campaign) WalkElements(fn func(sess *Session, scene *Scene, el *Element)) {
	for i := range c.Sessions {
		sess := &c.Sessions[i]
		for j := range sess.Scenes {
			scene := &sess.Scenes[j]
			for k := range scene.Elements {
				fn(sess, scene, &scene.Elements[k])
			}
		}
	}
}

// ElementLocation builds the Location of an element within this campaign.
func (c *Campaign) ElementLocation(sess *Session, scene *Scene, el *Element) Location {
	return Location{
		File:    c.File,
		Line:    el.Line,
		Session: sess.Label(),
		Scene:   scene.Number,
	}
}
