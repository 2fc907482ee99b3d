package models

// Tag is a row of the tags table.
type Tag struct {
	TagID string `db:"tag_id"`
	Slug  string `db:"slug"`
	Label string `db:"label"`
	AuditFields
}
