package model

// Result is implemented by every row a listing command prints.
type Result interface {
	GetID() string
	GetKind() string
	GetContent() string
	GetLocation() string
}

// Numbered pairs a result with the row number shown in text output, so JSON
// consumers can refer to "row 3" the same way a reader of the table does.
type Numbered[T Result] struct {
	Num      int    `json:"num"`
	Kind     string `json:"kind"`
	Location string `json:"location"`
	Item     T      `json:"item"`
}

// NumberedList numbers items from 1 in their current order.
func NumberedList[T Result](items []T) []Numbered[T] {
	out := make([]Numbered[T], 0, len(items))
	for i, item := range items {
		out = append(out, Numbered[T]{
			Num:      i + 1,
			Kind:     item.GetKind(),
			Location: item.GetLocation(),
			Item:     item,
		})
	}
	return out
}
