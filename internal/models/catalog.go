package models

// Catalog is the portable export form of a whole database: every
// attachment plus collections with their member attachment IDs.
// File contents are not part of a catalog, only their storage names.
type Catalog struct {
	Attachments []Attachment        `yaml:"attachments"`
	Collections []CatalogCollection `yaml:"collections,omitempty"`
}

// CatalogCollection pairs a collection name with the exported IDs of
// its members. Importers remap member IDs to the newly created rows.
type CatalogCollection struct {
	Name    string  `yaml:"name"`
	Members []int64 `yaml:"members,omitempty"`
}
