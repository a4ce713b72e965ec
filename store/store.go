// Package store is the in-memory content store of the board: it owns posts,
// comments, vote ballots and registered users for the lifetime of the process.
//
// A Store is safe for concurrent use. Every mutation runs under one write lock
// and every read runs under the read lock and returns copies, so callers never
// observe a half-applied vote.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/cppla/rankbbs/models"
)

// Store holds all content. The zero value is not usable; call New.
type Store struct {
	mu  sync.RWMutex
	now func() time.Time

	// IDs are dense and start at 0, so an entity's ID is its index.
	posts    []*models.Post
	comments []*models.Comment

	postBallots    []ballot
	commentBallots []ballot

	// child comment IDs in creation order, keyed by parent ID
	postChildren    map[int64][]int64
	commentChildren map[int64][]int64

	users map[string]struct{}
}

// Option customises a Store.
type Option func(*Store)

// WithClock replaces the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New returns an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		now:             time.Now,
		postChildren:    map[int64][]int64{},
		commentChildren: map[int64][]int64{},
		users:           map[string]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewPost carries the caller-supplied fields of a post.
type NewPost struct {
	Title        string
	Body         string
	Attachment   *models.Attachment
	Author       string
	State        models.PostState
	InitialScore int64
}

// NewComment carries the caller-supplied fields of a comment.
// Exactly one of ParentPostID and ParentCommentID must be set.
type NewComment struct {
	Author          string
	Text            string
	ParentPostID    *int64
	ParentCommentID *int64
	State           models.CommentState
	InitialScore    int64
}

// CreatePost stores a new post under the next post ID.
func (s *Store) CreatePost(req NewPost) (models.Post, error) {
	if !req.State.Valid() {
		return models.Post{}, fmt.Errorf("post state %d: %w", req.State, ErrInvalidState)
	}
	var attachment *models.Attachment
	if req.Attachment != nil {
		if req.Attachment.URL == "" {
			return models.Post{}, fmt.Errorf("empty url: %w", ErrInvalidAttachment)
		}
		if req.Attachment.Kind != models.AttachmentImage && req.Attachment.Kind != models.AttachmentVideo {
			return models.Post{}, fmt.Errorf("kind %d: %w", req.Attachment.Kind, ErrInvalidAttachment)
		}
		a := *req.Attachment
		attachment = &a
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := &models.Post{
		ID:         int64(len(s.posts)),
		Title:      req.Title,
		Body:       req.Body,
		Attachment: attachment,
		Author:     req.Author,
		Score:      req.InitialScore,
		State:      req.State,
		CreatedAt:  s.now(),
	}
	s.posts = append(s.posts, post)
	s.postBallots = append(s.postBallots, newBallot())

	return clonePost(post), nil
}

// CreateComment stores a new comment under the next comment ID. The author is
// required and the parent must be visible at creation time; hidden parents are
// treated as missing.
func (s *Store) CreateComment(req NewComment) (models.Comment, error) {
	if (req.ParentPostID == nil) == (req.ParentCommentID == nil) {
		return models.Comment{}, ErrMalformedComment
	}
	if req.Author == "" {
		return models.Comment{}, fmt.Errorf("comment author: %w", ErrInvalidUser)
	}
	if !req.State.Valid() {
		return models.Comment{}, fmt.Errorf("comment state %d: %w", req.State, ErrInvalidState)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	comment := &models.Comment{
		ID:        int64(len(s.comments)),
		Author:    req.Author,
		Text:      req.Text,
		Score:     req.InitialScore,
		State:     req.State,
		CreatedAt: s.now(),
	}

	if req.ParentPostID != nil {
		parentID := *req.ParentPostID
		if s.visiblePost(parentID) == nil {
			return models.Comment{}, fmt.Errorf("post %d: %w", parentID, ErrDanglingParent)
		}
		comment.ParentPostID = &parentID
		s.postChildren[parentID] = append(s.postChildren[parentID], comment.ID)
	} else {
		parentID := *req.ParentCommentID
		if s.visibleComment(parentID) == nil {
			return models.Comment{}, fmt.Errorf("comment %d: %w", parentID, ErrDanglingParent)
		}
		comment.ParentCommentID = &parentID
		s.commentChildren[parentID] = append(s.commentChildren[parentID], comment.ID)
	}

	s.comments = append(s.comments, comment)
	s.commentBallots = append(s.commentBallots, newBallot())

	return cloneComment(comment), nil
}

// GetPost returns the post with the given ID. Hidden posts yield ErrNotFound.
func (s *Store) GetPost(id int64) (models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	post := s.visiblePost(id)
	if post == nil {
		return models.Post{}, fmt.Errorf("post %d: %w", id, ErrNotFound)
	}
	return clonePost(post), nil
}

// GetComment returns the comment with the given ID. Hidden comments yield ErrNotFound.
func (s *Store) GetComment(id int64) (models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	comment := s.visibleComment(id)
	if comment == nil {
		return models.Comment{}, fmt.Errorf("comment %d: %w", id, ErrNotFound)
	}
	return cloneComment(comment), nil
}

// Stats counts every stored entity, hidden ones included.
type Stats struct {
	Posts    int
	Comments int
	Users    int
}

func (s *Store) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Stats{
		Posts:    len(s.posts),
		Comments: len(s.comments),
		Users:    len(s.users),
	}
}

// visiblePost must be called with s.mu held.
func (s *Store) visiblePost(id int64) *models.Post {
	if id < 0 || id >= int64(len(s.posts)) {
		return nil
	}
	post := s.posts[id]
	if post.Hidden() {
		return nil
	}
	return post
}

// visibleComment must be called with s.mu held.
func (s *Store) visibleComment(id int64) *models.Comment {
	if id < 0 || id >= int64(len(s.comments)) {
		return nil
	}
	comment := s.comments[id]
	if comment.Hidden() {
		return nil
	}
	return comment
}

func clonePost(p *models.Post) models.Post {
	out := *p
	if p.Attachment != nil {
		a := *p.Attachment
		out.Attachment = &a
	}
	return out
}

func cloneComment(c *models.Comment) models.Comment {
	out := *c
	if c.ParentPostID != nil {
		id := *c.ParentPostID
		out.ParentPostID = &id
	}
	if c.ParentCommentID != nil {
		id := *c.ParentCommentID
		out.ParentCommentID = &id
	}
	return out
}
