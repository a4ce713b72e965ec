package controllers

import (
	"time"

	"github.com/cppla/rankbbs/models"
	"github.com/cppla/rankbbs/store"
	"github.com/cppla/rankbbs/utils"
)

// Wire types. Store values never cross the boundary directly.
// Text fields carry exactly what was submitted; the *_html fields are the sanitized rendering.

type AttachmentDTO struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

type PostDTO struct {
	ID         int64          `json:"id"`
	Title      string         `json:"title"`
	Body       string         `json:"body"`
	BodyHTML   string         `json:"body_html"`
	Attachment *AttachmentDTO `json:"attachment,omitempty"`
	Author     string         `json:"author,omitempty"`
	Score      int64          `json:"score"`
	State      string         `json:"state"`
	CreatedAt  string         `json:"created_at"`
}

type CommentDTO struct {
	ID              int64  `json:"id"`
	Author          string `json:"author"`
	Text            string `json:"text"`
	TextHTML        string `json:"text_html"`
	ParentPostID    *int64 `json:"parent_post_id,omitempty"`
	ParentCommentID *int64 `json:"parent_comment_id,omitempty"`
	Score           int64  `json:"score"`
	State           string `json:"state"`
	CreatedAt       string `json:"created_at"`
}

type RankedCommentDTO struct {
	Comment    CommentDTO `json:"comment"`
	HasReplies bool       `json:"has_replies"`
}

type BranchDTO struct {
	Comment CommentDTO   `json:"comment"`
	Replies []CommentDTO `json:"replies"`
}

type VoteDTO struct {
	Success bool  `json:"success"`
	Score   int64 `json:"score"`
}

func toPostDTO(p models.Post) PostDTO {
	out := PostDTO{
		ID:        p.ID,
		Title:     p.Title,
		Body:      p.Body,
		BodyHTML:  utils.RenderHTML(p.Body),
		Author:    p.Author,
		Score:     p.Score,
		State:     p.State.String(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
	if p.Attachment != nil {
		out.Attachment = &AttachmentDTO{URL: p.Attachment.URL, Kind: p.Attachment.Kind.String()}
	}
	return out
}

func toCommentDTO(c models.Comment) CommentDTO {
	return CommentDTO{
		ID:              c.ID,
		Author:          c.Author,
		Text:            c.Text,
		TextHTML:        utils.RenderHTML(c.Text),
		ParentPostID:    c.ParentPostID,
		ParentCommentID: c.ParentCommentID,
		Score:           c.Score,
		State:           c.State.String(),
		CreatedAt:       c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toCommentDTOs(cs []models.Comment) []CommentDTO {
	out := make([]CommentDTO, 0, len(cs))
	for _, c := range cs {
		out = append(out, toCommentDTO(c))
	}
	return out
}

func toRankedDTOs(rs []store.RankedComment) []RankedCommentDTO {
	out := make([]RankedCommentDTO, 0, len(rs))
	for _, r := range rs {
		out = append(out, RankedCommentDTO{Comment: toCommentDTO(r.Comment), HasReplies: r.HasReplies})
	}
	return out
}

func toBranchDTOs(bs []store.Branch) []BranchDTO {
	out := make([]BranchDTO, 0, len(bs))
	for _, b := range bs {
		out = append(out, BranchDTO{Comment: toCommentDTO(b.Comment), Replies: toCommentDTOs(b.Replies)})
	}
	return out
}

func toVoteDTO(r store.VoteResult) VoteDTO {
	return VoteDTO{Success: r.Applied, Score: r.Score}
}
