package models

// Product is the canonical storefront product shape. Every field is always
// populated; use catalog.NormalizeProduct to build one from a stored document.
type Product struct {
	ID            string   `json:"id"`
	Slug          string   `json:"slug"`
	Name          string   `json:"name"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"originalPrice"`
	Image         string   `json:"image"`
	Images        []string `json:"images"`
	Description   string   `json:"description"`
	Sizes         []string `json:"sizes"`
	Available     bool     `json:"available"`
	Categories    []string `json:"categories"`
	Limited       bool     `json:"limited"`
	SoldOut       bool     `json:"soldOut"`
	Features      []string `json:"features,omitempty"`
}

// Document is a raw product record as it sits in the live store.
// Nothing about the shape of Data is trusted.
type Document struct {
	ID   string
	Data map[string]any
}

// Published reports whether the document is visible on the storefront.
func (d Document) Published() bool {
	s, _ := d.Data["status"].(string)
	return s == "published"
}
