package model

import "time"

// Resources uploaded from files store the BLAKE3 hash of the file in Content instead of the
// literal content.
type Resource struct {
	ID         string    `db:"id" json:"id"`
	CourseID   string    `db:"courseId" json:"courseId"`
	UserID     string    `db:"userId" json:"userId"`
	CreatedAt  time.Time `db:"createdAt" json:"createdAt"`
	ModifiedAt time.Time `db:"modifiedAt" json:"modifiedAt"`
	Name       string    `db:"name" json:"name"`
	Type       string    `db:"type" json:"type"`
	Content    string    `db:"content" json:"content"`
}

// Content types of resources created from text forms.
const (
	TypePlainText   = "text/plain"
	TypeMarkdown    = "text/markdown"
	TypeLink        = "text/x-uri"
	TypeOctetStream = "application/octet-stream"
)

// MaxTextContent bounds literal content, counted in UTF-16 code units.
const MaxTextContent = 10000

// IsLiteralType reports whether resources of content type t keep their text in Content.
func IsLiteralType(t string) bool {
	switch t {
	case TypePlainText, TypeMarkdown, TypeLink:
		return true
	}
	return false
}

// HasLiteralContent reports whether Content holds the resource text rather than a blob hash.
func (r Resource) HasLiteralContent() bool {
	return IsLiteralType(r.Type)
}

// ResourceUpdate is a partial update: only non-nil fields are written.
type ResourceUpdate struct {
	ID         string
	Name       *string
	Type       *string
	Content    *string
	ModifiedAt *time.Time
}
