package models

import "time"

// PostState is the moderation state of a post.
type PostState int

const (
	PostStateNormal PostState = iota
	PostStateLocked
	PostStateHidden
)

// String returns the lower-case wire name of the state.
func (s PostState) String() string {
	switch s {
	case PostStateNormal:
		return "normal"
	case PostStateLocked:
		return "locked"
	case PostStateHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the declared post states.
func (s PostState) Valid() bool {
	return s >= PostStateNormal && s <= PostStateHidden
}

// AttachmentKind tells readers how to render an attachment URL.
type AttachmentKind int

const (
	AttachmentImage AttachmentKind = iota
	AttachmentVideo
)

func (k AttachmentKind) String() string {
	switch k {
	case AttachmentImage:
		return "image"
	case AttachmentVideo:
		return "video"
	default:
		return "unknown"
	}
}

// Attachment is the single optional media link carried by a post.
type Attachment struct {
	URL  string
	Kind AttachmentKind
}

// Post is a top-level submission. Only Score changes after creation.
type Post struct {
	ID         int64
	Title      string
	Body       string
	Attachment *Attachment
	Author     string
	Score      int64
	State      PostState
	CreatedAt  time.Time
}

// Hidden reports whether the post must be treated as absent by readers.
func (p *Post) Hidden() bool {
	return p.State == PostStateHidden
}
