package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/aidanlsb/lonelog/internal/model"
	"github.com/aidanlsb/lonelog/internal/progress"
)

var (
	sessionHeaderRegex = regexp.MustCompile(`(?i)^##\s+Session\s+(\d+)`)
	sceneHeaderRegex   = regexp.MustCompile(`^###\s+(S[\w.-]+|\w+-S[\w.-]+)\s*\*?([^*]*)\*?`)
	sessionMetaRegex   = regexp.MustCompile(`\*([^*]+)\*`)
)

// ParseCampaign parses a complete document. It never fails: malformed
// metadata, headings and tags simply contribute nothing.
func ParseCampaign(content string, filePath string) *model.Campaign {
	c := model.NewCampaign(filePath)

	fields, body, _ := SplitFrontmatter(content)
	c.FrontMatter = fields
	c.Title = ResolveTitle(fields, body)

	lines := splitLines(content)
	c.Sessions = parseSessions(lines)

	mentions := CollectMentions(c)
	c.NPCs = MergeNPCs(mentions.NPCs)
	c.Locations = MergeLocations(mentions.Locations)
	c.Threads = MergeThreads(mentions.Threads)
	c.Clocks = progress.MergeClocks(mentions.Clocks)
	c.Tracks = progress.MergeTracks(mentions.Tracks)
	c.Timers = progress.MergeTimers(mentions.Timers)
	c.Events = progress.MergeEvents(mentions.Events)
	c.PlayerCharacters = MergePlayerCharacters(mentions.PlayerCharacters)
	c.References = MergeReferences(mentions.References)

	return c
}

// CollectMentions extracts the unmerged mentions of every element in
// document order. Meta notes are skipped.
func CollectMentions(c *model.Campaign) *Mentions {
	all := &Mentions{}
	c.WalkElements(func(sess *model.Session, scene *model.Scene, el *model.Element) {
		text := el.Text()
		if text == "" {
			return
		}
		all.Append(ExtractTags(text, c.ElementLocation(sess, scene, el)))
	})
	return all
}

// parseSessions segments lines into sessions. Lines before the first
// session header belong to no session and are ignored.
func parseSessions(lines []string) []model.Session {
	var sessions []model.Session
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		sess := newSession(lines, start)
		sess.EndLine = end + 1
		sess.Scenes = parseScenes(lines, start+1, end)
		sessions = append(sessions, sess)
	}

	for i, line := range lines {
		if sessionHeaderRegex.MatchString(line) {
			flush(i - 1)
			start = i
		}
	}
	flush(len(lines) - 1)

	return sessions
}

func newSession(lines []string, header int) model.Session {
	m := sessionHeaderRegex.FindStringSubmatch(lines[header])
	number, err := strconv.Atoi(m[1])
	if err != nil {
		number = 0
	}

	sess := model.Session{
		Number:    number,
		Metadata:  map[string]string{},
		Scenes:    []model.Scene{},
		StartLine: header + 1,
	}
	if header+1 < len(lines) {
		sess.Metadata = ParseSessionMetadata(lines[header+1])
	}

	for key, value := range sess.Metadata {
		switch strings.ToLower(key) {
		case "date":
			sess.Date = value
		case "duration":
			sess.Duration = value
		case "recap":
			sess.Recap = value
		case "goals":
			sess.Goals = value
		}
	}
	return sess
}

// ParseSessionMetadata reads "*Key: value | Key2: value2*" from the line
// after a session header. Pairs split on the first colon only, so
// "Time: 10:30" keeps "10:30". Pairs with an empty key or value are dropped.
func ParseSessionMetadata(line string) map[string]string {
	meta := map[string]string{}
	m := sessionMetaRegex.FindStringSubmatch(line)
	if m == nil {
		return meta
	}
	for _, pair := range strings.Split(m[1], "|") {
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			continue
		}
		meta[key] = value
	}
	return meta
}

// parseScenes segments lines[from..to] (0-indexed, inclusive) into scenes.
func parseScenes(lines []string, from, to int) []model.Scene {
	scenes := []model.Scene{}
	start := -1

	flush := func(end int) {
		if start < 0 {
			return
		}
		m := sceneHeaderRegex.FindStringSubmatch(lines[start])
		scene := model.Scene{
			ID:        m[1],
			Number:    m[1],
			Context:   strings.TrimSpace(m[2]),
			StartLine: start + 1,
			EndLine:   end + 1,
		}
		scene.Elements = parseSceneBody(lines, start+1, end)
		scenes = append(scenes, scene)
	}

	for i := from; i <= to && i < len(lines); i++ {
		if sceneHeaderRegex.MatchString(lines[i]) {
			flush(i - 1)
			start = i
		}
	}
	flush(to)

	return scenes
}

// parseSceneBody tokenizes every closed fenced block in lines[from..to].
func parseSceneBody(lines []string, from, to int) []model.Element {
	elements := []model.Element{}
	var fence FenceState

	for i := from; i <= to && i < len(lines); i++ {
		if block, ok := fence.Feed(lines[i], i+1); ok {
			elements = append(elements, TokenizeBlock(block)...)
		}
	}
	fence.Reset()

	return elements
}
