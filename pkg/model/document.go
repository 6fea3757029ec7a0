package model

import (
	"fmt"

	json "github.com/goccy/go-json"
)

// Document is the serialized form of a tree: the ordered root sequence. A
// path's first segment indexes into Roots.
type Document struct {
	Roots []*Node `json:"roots"`
}

// ParseDocument decodes a JSON document and validates its structure.
// Toggle values keep their JSON types (bool, string, float64); the nil
// sentinel for explicitly hidden toggles round-trips as JSON null.
func ParseDocument(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document: %w", err)
	}
	for i, root := range doc.Roots {
		if root == nil {
			return nil, fmt.Errorf("document root %d is null", i)
		}
		if err := root.Validate(); err != nil {
			return nil, fmt.Errorf("document root %d: %w", i, err)
		}
	}
	return &doc, nil
}

// Encode serializes the document back to indented JSON. Values toggled in
// place appear verbatim, so Parse(Encode(d)) is structurally equal to d.
func (d *Document) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}

// NodeCount returns the total number of nodes in the document.
func (d *Document) NodeCount() int {
	total := 0
	for _, root := range d.Roots {
		total += root.Count()
	}
	return total
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{}
	for _, root := range d.Roots {
		c.Roots = append(c.Roots, root.Clone())
	}
	return c
}
