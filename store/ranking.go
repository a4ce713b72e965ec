package store

import (
	"cmp"
	"slices"

	"github.com/cppla/rankbbs/models"
)

// RankedComment is a top-level comment plus whether it has at least one visible reply.
type RankedComment struct {
	Comment    models.Comment
	HasReplies bool
}

// Branch is one reply of an expanded comment together with its own ranked replies.
type Branch struct {
	Comment models.Comment
	Replies []models.Comment
}

// TopComments returns up to n visible comments directly under a visible post,
// highest score first. Equal scores keep creation order.
func (s *Store) TopComments(postID int64, n int) []RankedComment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []RankedComment{}
	if n <= 0 || s.visiblePost(postID) == nil {
		return out
	}

	for _, c := range s.rank(s.postChildren[postID], n) {
		out = append(out, RankedComment{
			Comment:    cloneComment(c),
			HasReplies: s.hasVisibleReply(c.ID),
		})
	}
	return out
}

// ExpandBranch returns up to n visible replies of a visible comment, each with up
// to n of its own visible replies. Both levels are ranked like TopComments and the
// expansion stops at the second level.
func (s *Store) ExpandBranch(commentID int64, n int) []Branch {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []Branch{}
	if n <= 0 || s.visibleComment(commentID) == nil {
		return out
	}

	for _, reply := range s.rank(s.commentChildren[commentID], n) {
		nested := []models.Comment{}
		for _, c := range s.rank(s.commentChildren[reply.ID], n) {
			nested = append(nested, cloneComment(c))
		}
		out = append(out, Branch{
			Comment: cloneComment(reply),
			Replies: nested,
		})
	}
	return out
}

// rank filters hidden comments out of ids, sorts by score descending and keeps
// the first n. ids must be in creation order; the stable sort preserves it on ties.
// Must be called with s.mu held.
func (s *Store) rank(ids []int64, n int) []*models.Comment {
	visible := make([]*models.Comment, 0, len(ids))
	for _, id := range ids {
		if c := s.comments[id]; !c.Hidden() {
			visible = append(visible, c)
		}
	}

	slices.SortStableFunc(visible, func(a, b *models.Comment) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(visible) > n {
		visible = visible[:n]
	}
	return visible
}

// Must be called with s.mu held.
func (s *Store) hasVisibleReply(commentID int64) bool {
	for _, id := range s.commentChildren[commentID] {
		if !s.comments[id].Hidden() {
			return true
		}
	}
	return false
}
