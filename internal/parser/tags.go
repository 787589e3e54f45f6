package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aidanlsb/lonelog/internal/model"
)

// Bracket tag grammars. Each may match many times in one fragment.
var (
	npcTagRegex      = regexp.MustCompile(`\[N:([^|\]]+)(?:\|([^\]]+))?\]`)
	npcRefRegex      = regexp.MustCompile(`\[#N:([^|\]]+)(?:\|([^\]]+))?\]`)
	locationTagRegex = regexp.MustCompile(`\[L:([^|\]]+)(?:\|([^\]]+))?\]`)
	locationRefRegex = regexp.MustCompile(`\[#L:([^|\]]+)(?:\|([^\]]+))?\]`)
	threadTagRegex   = regexp.MustCompile(`\[Thread:([^|\]]+)\|([^\]]+)\]`)
	clockTagRegex    = regexp.MustCompile(`\[Clock:([^\]]+)\s+(\d+)/(\d+)\]`)
	trackTagRegex    = regexp.MustCompile(`\[Track:([^\]]+)\s+(\d+)/(\d+)\]`)
	eventTagRegex    = regexp.MustCompile(`\[E:([^\]]+)\s+(\d+)/(\d+)\]`)
	timerTagRegex    = regexp.MustCompile(`\[Timer:([^\]]+)\s+(\d+)\]`)
	pcTagRegex       = regexp.MustCompile(`\[PC:([^|\]]+)(?:\|([^\]]+))?\]`)
	anyRefRegex      = regexp.MustCompile(`\[#[NL]:`)
)

// Mentions holds every entity mention found in one text fragment, in match
// order per kind. Each value carries a single location.
type Mentions struct {
	NPCs             []*model.NPC
	Locations        []*model.LocationTag
	Threads          []*model.Thread
	Clocks           []*model.Tracker
	Tracks           []*model.Tracker
	Timers           []*model.Tracker
	Events           []*model.Tracker
	PlayerCharacters []*model.PlayerCharacter
	References       []*model.Reference
}

// Append adds all of other's mentions after m's.
func (m *Mentions) Append(other *Mentions) {
	m.NPCs = append(m.NPCs, other.NPCs...)
	m.Locations = append(m.Locations, other.Locations...)
	m.Threads = append(m.Threads, other.Threads...)
	m.Clocks = append(m.Clocks, other.Clocks...)
	m.Tracks = append(m.Tracks, other.Tracks...)
	m.Timers = append(m.Timers, other.Timers...)
	m.Events = append(m.Events, other.Events...)
	m.PlayerCharacters = append(m.PlayerCharacters, other.PlayerCharacters...)
	m.References = append(m.References, other.References...)
}

// Count returns the total number of mentions.
func (m *Mentions) Count() int {
	return len(m.NPCs) + len(m.Locations) + len(m.Threads) +
		len(m.Clocks) + len(m.Tracks) + len(m.Timers) + len(m.Events) +
		len(m.PlayerCharacters) + len(m.References)
}

// ExtractTags scans text for bracket tags. Bare references also produce an
// NPC or location stub with no tags so they merge with declarations of the
// same name. Unmatched brackets contribute nothing.
func ExtractTags(text string, loc model.Location) *Mentions {
	m := &Mentions{}
	if text == "" {
		return m
	}

	for _, match := range npcTagRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		m.NPCs = append(m.NPCs, &model.NPC{
			ID:           model.Identity(model.KindNPC, name),
			Name:         name,
			Tags:         SplitTags(match[2]),
			FirstMention: loc,
			Mentions:     []model.Location{loc},
		})
	}

	for _, match := range locationTagRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		m.Locations = append(m.Locations, &model.LocationTag{
			ID:           model.Identity(model.KindLocation, name),
			Name:         name,
			Tags:         SplitTags(match[2]),
			FirstMention: loc,
			Mentions:     []model.Location{loc},
		})
	}

	for _, match := range threadTagRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		m.Threads = append(m.Threads, &model.Thread{
			ID:           model.Identity(model.KindThread, name),
			Name:         name,
			State:        strings.TrimSpace(match[2]),
			FirstMention: loc,
			Mentions:     []model.Location{loc},
		})
	}

	m.Clocks = extractRanged(clockTagRegex, model.KindClock, text, loc)
	m.Tracks = extractRanged(trackTagRegex, model.KindTrack, text, loc)

	for _, match := range timerTagRegex.FindAllStringSubmatch(text, -1) {
		value, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(match[1])
		m.Timers = append(m.Timers, &model.Tracker{
			ID:        model.Identity(model.KindTimer, name),
			Kind:      model.KindTimer,
			Name:      name,
			Value:     value,
			Locations: []model.Location{loc},
		})
	}

	m.Events = extractRanged(eventTagRegex, model.KindEvent, text, loc)

	for _, match := range pcTagRegex.FindAllStringSubmatch(text, -1) {
		name := strings.TrimSpace(match[1])
		m.PlayerCharacters = append(m.PlayerCharacters, &model.PlayerCharacter{
			ID:        model.Identity(model.KindPC, name),
			Name:      name,
			Stats:     ParseStats(match[2]),
			Locations: []model.Location{loc},
		})
	}

	for _, ref := range ExtractReferences(text, loc) {
		m.References = append(m.References, ref)
		switch ref.Kind {
		case model.KindNPC:
			m.NPCs = append(m.NPCs, &model.NPC{
				ID:           ref.ID,
				Name:         ref.Name,
				Tags:         []string{},
				FirstMention: loc,
				Mentions:     []model.Location{loc},
			})
		case model.KindLocation:
			m.Locations = append(m.Locations, &model.LocationTag{
				ID:           ref.ID,
				Name:         ref.Name,
				Tags:         []string{},
				FirstMention: loc,
				Mentions:     []model.Location{loc},
			})
		}
	}

	return m
}

// HasReference reports whether text contains a [#N: or [#L: pointer.
func HasReference(text string) bool {
	return anyRefRegex.MatchString(text)
}

// ExtractReferences returns the bare [#N:...] then [#L:...] pointers in text.
func ExtractReferences(text string, loc model.Location) []*model.Reference {
	var refs []*model.Reference
	add := func(re *regexp.Regexp, kind string) {
		for _, match := range re.FindAllStringSubmatch(text, -1) {
			name := strings.TrimSpace(match[1])
			refs = append(refs, &model.Reference{
				ID:           model.Identity(kind, name),
				Name:         name,
				Kind:         kind,
				FirstMention: loc,
				Mentions:     []model.Location{loc},
			})
		}
	}
	add(npcRefRegex, model.KindNPC)
	add(locationRefRegex, model.KindLocation)
	return refs
}

// SplitTags splits a pipe-separated tag list, trimming and dropping empties.
func SplitTags(s string) []string {
	tags := []string{}
	for _, part := range strings.Split(s, "|") {
		if t := strings.TrimSpace(part); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// ParseStats parses "key:value|key=value" PC stat segments. Each segment
// splits on its first ':' or '='; segments missing a key or value are
// dropped.
func ParseStats(s string) map[string]string {
	stats := map[string]string{}
	for _, part := range strings.Split(s, "|") {
		idx := strings.IndexAny(part, ":=")
		if idx < 0 {
			continue
		}
		key := strings.TrimSpace(part[:idx])
		value := strings.TrimSpace(part[idx+1:])
		if key == "" || value == "" {
			continue
		}
		stats[key] = value
	}
	return stats
}

func extractRanged(re *regexp.Regexp, kind, text string, loc model.Location) []*model.Tracker {
	var out []*model.Tracker
	for _, match := range re.FindAllStringSubmatch(text, -1) {
		current, err := strconv.Atoi(match[2])
		if err != nil {
			continue
		}
		total, err := strconv.Atoi(match[3])
		if err != nil {
			continue
		}
		name := strings.TrimSpace(match[1])
		out = append(out, &model.Tracker{
			ID:        model.Identity(kind, name),
			Kind:      kind,
			Name:      name,
			Current:   current,
			Total:     total,
			Locations: []model.Location{loc},
		})
	}
	return out
}
