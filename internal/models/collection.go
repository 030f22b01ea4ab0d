package models

// Collection is a named, user-defined grouping of attachments.
// Count is derived from membership at read time and never stored.
type Collection struct {
	ID    int64  `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"-"`
}

// CollectionRef identifies a collection an attachment belongs to.
type CollectionRef struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}
