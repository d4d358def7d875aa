package model

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Author is one entry in a paper's author list. The upstream search API
// returns either a plain name string or a structured record, so both
// variants are kept: Name holds the plain form, Fields the record form.
// Exactly one of the two is populated.
type Author struct {
	Name   string
	Fields map[string]any
}

// Display coerces an author entry to a human-readable string:
// the plain name, else the record's "name" field, else the first
// field value by sorted key, else "Unknown".
func (a Author) Display() string {
	if a.Name != "" {
		return a.Name
	}
	if len(a.Fields) == 0 {
		return "Unknown"
	}
	if name, ok := a.Fields["name"].(string); ok && name != "" {
		return name
	}
	keys := make([]string, 0, len(a.Fields))
	for k := range a.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return fmt.Sprintf("%v", a.Fields[keys[0]])
}

// UnmarshalJSON accepts either a JSON string or a JSON object.
func (a *Author) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		a.Name = name
		a.Fields = nil
		return nil
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("author is neither string nor object: %w", err)
	}
	a.Name = ""
	a.Fields = fields
	return nil
}

// MarshalJSON writes the display string; consumers only ever need the
// coerced form.
func (a Author) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.Display())
}

// AuthorList is an ordered sequence of authors
type AuthorList []Author

// UnmarshalJSON accepts a JSON array of authors or a single bare
// author value; the search API has been seen returning both shapes.
func (l *AuthorList) UnmarshalJSON(data []byte) error {
	var list []Author
	if err := json.Unmarshal(data, &list); err == nil {
		*l = list
		return nil
	}

	var single Author
	if err := json.Unmarshal(data, &single); err != nil {
		return fmt.Errorf("author list: %w", err)
	}
	*l = AuthorList{single}
	return nil
}

// Display joins all authors into one display string, or "Unknown" when
// the list is empty.
func (l AuthorList) Display() string {
	if len(l) == 0 {
		return "Unknown"
	}
	parts := make([]string, len(l))
	for i, a := range l {
		parts[i] = a.Display()
	}
	return strings.Join(parts, ", ")
}
