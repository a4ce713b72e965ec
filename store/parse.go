package store

import (
	"fmt"
	"strings"

	"github.com/cppla/rankbbs/models"
)

// ParsePostState maps a wire name to a PostState. An empty name means normal.
func ParsePostState(name string) (models.PostState, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return models.PostStateNormal, nil
	case "locked":
		return models.PostStateLocked, nil
	case "hidden":
		return models.PostStateHidden, nil
	default:
		return 0, fmt.Errorf("post state %q: %w", name, ErrInvalidState)
	}
}

// ParseCommentState maps a wire name to a CommentState. An empty name means normal.
func ParseCommentState(name string) (models.CommentState, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal":
		return models.CommentStateNormal, nil
	case "hidden":
		return models.CommentStateHidden, nil
	default:
		return 0, fmt.Errorf("comment state %q: %w", name, ErrInvalidState)
	}
}

// ParseAttachmentKind maps a wire name to an AttachmentKind.
func ParseAttachmentKind(name string) (models.AttachmentKind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "image":
		return models.AttachmentImage, nil
	case "video":
		return models.AttachmentVideo, nil
	default:
		return 0, fmt.Errorf("attachment kind %q: %w", name, ErrInvalidAttachment)
	}
}
