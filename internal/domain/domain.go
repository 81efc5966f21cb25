package domain

import "time"

const MaxTitleLength = 100

type User struct {
	ID           uint
	Username     string
	PasswordHash string
}

// Tags is an ordered list of note labels. A nil Tags is equivalent to an
// empty one.
type Tags []string

// Clone returns a non-nil copy.
func (t Tags) Clone() Tags {
	out := make(Tags, len(t))
	copy(out, t)
	return out
}

type Note struct {
	ID        uint
	Title     string
	Content   string
	Tags      Tags
	CreatedAt time.Time
}

// Text is the body used for ranking.
func (n Note) Text() string {
	return n.Title + " " + n.Content
}
