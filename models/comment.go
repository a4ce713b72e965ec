package models

import "time"

// CommentState is the moderation state of a comment.
type CommentState int

const (
	CommentStateNormal CommentState = iota
	CommentStateHidden
)

func (s CommentState) String() string {
	switch s {
	case CommentStateNormal:
		return "normal"
	case CommentStateHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the declared comment states.
func (s CommentState) Valid() bool {
	return s == CommentStateNormal || s == CommentStateHidden
}

// Comment is either a top-level comment under a post (ParentPostID set)
// or a reply to another comment (ParentCommentID set), never both.
type Comment struct {
	ID              int64
	Author          string
	Text            string
	ParentPostID    *int64
	ParentCommentID *int64
	Score           int64
	State           CommentState
	CreatedAt       time.Time
}

// Hidden reports whether the comment must be treated as absent by readers.
func (c *Comment) Hidden() bool {
	return c.State == CommentStateHidden
}

// IsReply reports whether the comment answers another comment.
func (c *Comment) IsReply() bool {
	return c.ParentCommentID != nil
}
