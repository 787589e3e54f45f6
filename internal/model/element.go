package model

// ElementKind discriminates the notation element variants.
type ElementKind string

const (
	ElementAction         ElementKind = "action"
	ElementOracleQuestion ElementKind = "oracle_question"
	ElementMechanicsRoll  ElementKind = "mechanics_roll"
	ElementOracleResult   ElementKind = "oracle_result"
	ElementConsequence    ElementKind = "consequence"
	ElementTableLookup    ElementKind = "table_lookup"
	ElementGenerator      ElementKind = "generator"
	ElementMetaNote       ElementKind = "meta_note"
	ElementText           ElementKind = "text"
)

// MetaCategory is the category of an out-of-character meta note.
type MetaCategory string

const (
	MetaNote       MetaCategory = "note"
	MetaReflection MetaCategory = "reflection"
	MetaHouseRule  MetaCategory = "house_rule"
	MetaReminder   MetaCategory = "reminder"
	MetaQuestion   MetaCategory = "question"
	MetaOther      MetaCategory = "other"
)

// KnownMetaCategories lists the categories a meta note can be parsed into,
// excluding the "other" fallback.
var KnownMetaCategories = []MetaCategory{MetaNote, MetaReflection, MetaHouseRule, MetaReminder, MetaQuestion}

// Element is one classified line from a fenced notation block.
//
// Only the fields belonging to Kind are populated:
//
//	action           Content
//	oracle_question  Question
//	mechanics_roll   Roll, Outcome, Success
//	oracle_result    Answer, Roll (optional)
//	consequence      Description
//	table_lookup     Roll, Result
//	generator        System, Rolls, Result
//	meta_note        Category, Content
//	text             Content
type Element struct {
	Kind ElementKind `json:"type"`
	Line int         `json:"line"`

	Content     string       `json:"content,omitempty"`
	Question    string       `json:"question,omitempty"`
	Roll        string       `json:"roll,omitempty"`
	Outcome     string       `json:"outcome,omitempty"`
	Answer      string       `json:"answer,omitempty"`
	Description string       `json:"description,omitempty"`
	Result      string       `json:"result,omitempty"`
	System      string       `json:"system,omitempty"`
	Rolls       string       `json:"rolls,omitempty"`
	Category    MetaCategory `json:"category,omitempty"`

	// Success is nil when the outcome could not be classified.
	Success *bool `json:"success,omitempty"`
}

// Text returns the in-character text of the element that is scanned for
// tags. Meta notes are out-of-character and return "".
func (e Element) Text() string {
	switch e.Kind {
	case ElementAction, ElementText:
		return e.Content
	case ElementOracleQuestion:
		return e.Question
	case ElementMechanicsRoll:
		return e.Roll + " " + e.Outcome
	case ElementOracleResult:
		return e.Answer
	case ElementConsequence:
		return e.Description
	case ElementTableLookup, ElementGenerator:
		return e.Result
	default:
		return ""
	}
}
