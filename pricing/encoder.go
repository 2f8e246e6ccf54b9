package pricing

import "sort"

// Column names of the three categorical features, in feature-vector order.
const (
	ColumnCategory = "item_category"
	ColumnItemName = "item_name"
	ColumnCity     = "city"
)

// Encoder maps string labels to stable integer codes.
// Codes follow the lexicographic order of the labels seen at construction.
type Encoder struct {
	classes []string
	codes   map[string]int
}

// NewEncoder builds an Encoder over the distinct values in labels.
func NewEncoder(labels []string) *Encoder {
	codes := make(map[string]int, len(labels))
	classes := make([]string, 0, len(labels))
	for _, l := range labels {
		if _, ok := codes[l]; ok {
			continue
		}
		codes[l] = 0
		classes = append(classes, l)
	}
	sort.Strings(classes)
	for i, l := range classes {
		codes[l] = i
	}
	return &Encoder{classes: classes, codes: codes}
}

// Encode returns the code for label and whether label is known.
func (e *Encoder) Encode(label string) (int, bool) {
	code, ok := e.codes[label]
	return code, ok
}

// Decode returns the label for code and whether code is in range.
func (e *Encoder) Decode(code int) (string, bool) {
	if code < 0 || code >= len(e.classes) {
		return "", false
	}
	return e.classes[code], true
}

// Classes returns a copy of the known labels in code order.
func (e *Encoder) Classes() []string {
	out := make([]string, len(e.classes))
	copy(out, e.classes)
	return out
}

func (e *Encoder) Len() int { return len(e.classes) }

func lookup(e *Encoder, column, value string) (int, error) {
	code, ok := e.Encode(value)
	if !ok {
		return 0, &UnknownCategoryError{Column: column, Value: value}
	}
	return code, nil
}
