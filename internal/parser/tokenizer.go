package parser

import (
	"regexp"
	"strings"

	"github.com/aidanlsb/lonelog/internal/model"
)

// tokenRule classifies one trimmed line. Rules are tried in order and the
// first whose match function accepts the line builds the element.
type tokenRule struct {
	kind  model.ElementKind
	match func(line string) bool
	build func(line string) (model.Element, bool)
}

var (
	oracleRollRegex  = regexp.MustCompile(`\(([^)]+)\)`)
	oracleStripRegex = regexp.MustCompile(`\s*\([^)]+\)`)
	metaNoteRegex    = regexp.MustCompile(`(?i)^\((note|reflection|house rule|reminder|question):\s*(.+)\)$`)
)

func hasPrefix(prefix string) func(string) bool {
	return func(line string) bool { return strings.HasPrefix(line, prefix) }
}

// tokenRules is ordered: "->" must be tested before "=>" can shadow it, and
// meta notes only after every symbol prefix has failed.
var tokenRules = []tokenRule{
	{model.ElementAction, hasPrefix("> "), func(line string) (model.Element, bool) {
		return model.Element{Kind: model.ElementAction, Content: strings.TrimSpace(line[2:])}, true
	}},
	{model.ElementOracleQuestion, hasPrefix("?"), func(line string) (model.Element, bool) {
		return model.Element{Kind: model.ElementOracleQuestion, Question: strings.TrimSpace(line[1:])}, true
	}},
	{model.ElementMechanicsRoll, hasPrefix("d:"), buildMechanicsRoll},
	{model.ElementOracleResult, hasPrefix("->"), buildOracleResult},
	{model.ElementConsequence, hasPrefix("=>"), func(line string) (model.Element, bool) {
		return model.Element{Kind: model.ElementConsequence, Description: strings.TrimSpace(line[2:])}, true
	}},
	{model.ElementTableLookup, hasPrefix("tbl:"), func(line string) (model.Element, bool) {
		roll, result := splitArrow(line[4:])
		return model.Element{Kind: model.ElementTableLookup, Roll: roll, Result: result}, true
	}},
	{model.ElementGenerator, hasPrefix("gen:"), func(line string) (model.Element, bool) {
		system, result := splitArrow(line[4:])
		return model.Element{Kind: model.ElementGenerator, System: system, Result: result}, true
	}},
	{model.ElementMetaNote, looksLikeMetaNote, buildMetaNote},
}

// TokenizeBlock classifies the lines of one fenced block. Blank lines are
// skipped; every other line yields exactly one element.
func TokenizeBlock(lines []NumberedLine) []model.Element {
	elements := make([]model.Element, 0, len(lines))
	for _, nl := range lines {
		el, ok := TokenizeLine(nl.Text)
		if !ok {
			continue
		}
		el.Line = nl.Line
		elements = append(elements, el)
	}
	return elements
}

// TokenizeLine classifies a single line. It returns false for blank lines.
func TokenizeLine(raw string) (model.Element, bool) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return model.Element{}, false
	}

	for _, rule := range tokenRules {
		if !rule.match(line) {
			continue
		}
		if el, ok := rule.build(line); ok {
			return el, true
		}
		break
	}

	return model.Element{Kind: model.ElementText, Content: line}, true
}

func buildMechanicsRoll(line string) (model.Element, bool) {
	roll, outcome := splitArrow(line[2:])
	return model.Element{
		Kind:    model.ElementMechanicsRoll,
		Roll:    roll,
		Outcome: outcome,
		Success: ClassifyOutcome(outcome),
	}, true
}

func buildOracleResult(line string) (model.Element, bool) {
	rest := strings.TrimSpace(line[2:])
	el := model.Element{Kind: model.ElementOracleResult}
	if m := oracleRollRegex.FindStringSubmatch(rest); m != nil {
		el.Roll = m[1]
		if loc := oracleStripRegex.FindStringIndex(rest); loc != nil {
			rest = rest[:loc[0]] + rest[loc[1]:]
		}
	}
	el.Answer = strings.TrimSpace(rest)
	return el, true
}

func looksLikeMetaNote(line string) bool {
	return strings.HasPrefix(line, "(") && strings.HasSuffix(line, ")") && strings.Contains(line, ":")
}

func buildMetaNote(line string) (model.Element, bool) {
	m := metaNoteRegex.FindStringSubmatch(line)
	if m == nil {
		return model.Element{}, false
	}
	return model.Element{
		Kind:     model.ElementMetaNote,
		Category: ParseMetaCategory(m[1]),
		Content:  strings.TrimSpace(m[2]),
	}, true
}

// ParseMetaCategory normalizes a category label ("House Rule" becomes
// house_rule). Unknown labels map to model.MetaOther.
func ParseMetaCategory(label string) model.MetaCategory {
	normalized := strings.Join(strings.Fields(strings.ToLower(label)), "_")
	for _, c := range model.KnownMetaCategories {
		if string(c) == normalized {
			return c
		}
	}
	return model.MetaOther
}

// ClassifyOutcome guesses whether a roll outcome succeeded. It returns nil
// when the text gives no usable signal. An outcome naming both "hit" and
// "weak" is deliberately left unknown.
func ClassifyOutcome(outcome string) *bool {
	o := strings.ToLower(outcome)
	switch {
	case strings.Contains(o, "success") || strings.Contains(o, " s") || o == "s":
		return boolPtr(true)
	case strings.Contains(o, "fail") || strings.Contains(o, " f") || o == "f":
		return boolPtr(false)
	case strings.Contains(o, "strong") || (strings.Contains(o, "hit") && !strings.Contains(o, "weak")):
		return boolPtr(true)
	case strings.Contains(o, "miss"):
		return boolPtr(false)
	default:
		return nil
	}
}

// splitArrow splits on the first "=>", trimming both halves. A missing
// right half is empty.
func splitArrow(s string) (string, string) {
	left, right, _ := strings.Cut(s, "=>")
	return strings.TrimSpace(left), strings.TrimSpace(right)
}

func boolPtr(b bool) *bool { return &b }
