package parser

import (
	"slices"

	"github.com/aidanlsb/lonelog/internal/model"
)

// MergeNPCs folds NPC mentions by identity. Tags are unioned in first-seen
// order and mentions are appended. The first mention's name is kept.
func MergeNPCs(npcs []*model.NPC) map[string]*model.NPC {
	merged := make(map[string]*model.NPC, len(npcs))
	for _, n := range npcs {
		existing, ok := merged[n.ID]
		if !ok {
			cp := *n
			cp.Tags = unionTags(nil, n.Tags)
			cp.Mentions = slices.Clone(n.Mentions)
			merged[n.ID] = &cp
			continue
		}
		existing.Tags = unionTags(existing.Tags, n.Tags)
		existing.Mentions = append(existing.Mentions, n.Mentions...)
	}
	return merged
}

// MergeLocations folds location mentions the same way as MergeNPCs.
func MergeLocations(locations []*model.LocationTag) map[string]*model.LocationTag {
	merged := make(map[string]*model.LocationTag, len(locations))
	for _, l := range locations {
		existing, ok := merged[l.ID]
		if !ok {
			cp := *l
			cp.Tags = unionTags(nil, l.Tags)
			cp.Mentions = slices.Clone(l.Mentions)
			merged[l.ID] = &cp
			continue
		}
		existing.Tags = unionTags(existing.Tags, l.Tags)
		existing.Mentions = append(existing.Mentions, l.Mentions...)
	}
	return merged
}

// MergeThreads folds thread mentions. The latest state wins.
func MergeThreads(threads []*model.Thread) map[string]*model.Thread {
	merged := make(map[string]*model.Thread, len(threads))
	for _, t := range threads {
		existing, ok := merged[t.ID]
		if !ok {
			cp := *t
			cp.Mentions = slices.Clone(t.Mentions)
			merged[t.ID] = &cp
			continue
		}
		existing.State = t.State
		existing.Mentions = append(existing.Mentions, t.Mentions...)
	}
	return merged
}

// MergePlayerCharacters folds PC mentions. Stats are overwritten per key.
func MergePlayerCharacters(pcs []*model.PlayerCharacter) map[string]*model.PlayerCharacter {
	merged := make(map[string]*model.PlayerCharacter, len(pcs))
	for _, pc := range pcs {
		existing, ok := merged[pc.ID]
		if !ok {
			cp := *pc
			cp.Stats = make(map[string]string, len(pc.Stats))
			for k, v := range pc.Stats {
				cp.Stats[k] = v
			}
			cp.Locations = slices.Clone(pc.Locations)
			merged[pc.ID] = &cp
			continue
		}
		for k, v := range pc.Stats {
			existing.Stats[k] = v
		}
		existing.Locations = append(existing.Locations, pc.Locations...)
	}
	return merged
}

// MergeReferences folds bare references by identity, appending mentions.
func MergeReferences(refs []*model.Reference) map[string]*model.Reference {
	merged := make(map[string]*model.Reference, len(refs))
	for _, r := range refs {
		existing, ok := merged[r.ID]
		if !ok {
			cp := *r
			cp.Mentions = slices.Clone(r.Mentions)
			merged[r.ID] = &cp
			continue
		}
		existing.Mentions = append(existing.Mentions, r.Mentions...)
	}
	return merged
}

func unionTags(dst, src []string) []string {
	if dst == nil {
		dst = make([]string, 0, len(src))
	}
	for _, t := range src {
		if !slices.Contains(dst, t) {
			dst = append(dst, t)
		}
	}
	return dst
}
