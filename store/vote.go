package store

import "fmt"

// Direction is a user's standing vote on a target.
type Direction int

const (
	NoVote Direction = iota
	Upvote
	Downvote
)

func (d Direction) String() string {
	switch d {
	case Upvote:
		return "up"
	case Downvote:
		return "down"
	default:
		return "none"
	}
}

// VoteResult reports whether a vote changed anything and the target's score afterwards.
// A repeated vote in the same direction is not an error: Applied is false and Score
// is the unchanged current score.
type VoteResult struct {
	Applied bool
	Score   int64
}

// ballot records which users voted a target up or down. A user is in at most one set.
type ballot struct {
	up   map[string]struct{}
	down map[string]struct{}
}

func newBallot() ballot {
	return ballot{
		up:   map[string]struct{}{},
		down: map[string]struct{}{},
	}
}

func (b ballot) direction(userID string) Direction {
	if _, ok := b.up[userID]; ok {
		return Upvote
	}
	if _, ok := b.down[userID]; ok {
		return Downvote
	}
	return NoVote
}

// apply records the vote and returns the score delta, or false when the user
// already stands in that direction. Switching sides moves two units.
func (b ballot) apply(userID string, isUpvote bool) (int64, bool) {
	same, other := b.up, b.down
	step := int64(1)
	if !isUpvote {
		same, other = b.down, b.up
		step = -1
	}

	if _, ok := same[userID]; ok {
		return 0, false
	}

	var delta int64
	if _, ok := other[userID]; ok {
		delete(other, userID)
		delta += step
	}
	same[userID] = struct{}{}
	delta += step

	return delta, true
}

// VotePost applies userID's vote to a visible post.
func (s *Store) VotePost(postID int64, userID string, isUpvote bool) (VoteResult, error) {
	if userID == "" {
		return VoteResult{}, ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	post := s.visiblePost(postID)
	if post == nil {
		return VoteResult{}, fmt.Errorf("post %d: %w", postID, ErrNotFound)
	}

	delta, ok := s.postBallots[postID].apply(userID, isUpvote)
	if !ok {
		return VoteResult{Applied: false, Score: post.Score}, nil
	}
	post.Score += delta

	return VoteResult{Applied: true, Score: post.Score}, nil
}

// VoteComment applies userID's vote to a visible comment.
func (s *Store) VoteComment(commentID int64, userID string, isUpvote bool) (VoteResult, error) {
	if userID == "" {
		return VoteResult{}, ErrInvalidUser
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	comment := s.visibleComment(commentID)
	if comment == nil {
		return VoteResult{}, fmt.Errorf("comment %d: %w", commentID, ErrNotFound)
	}

	delta, ok := s.commentBallots[commentID].apply(userID, isUpvote)
	if !ok {
		return VoteResult{Applied: false, Score: comment.Score}, nil
	}
	comment.Score += delta

	return VoteResult{Applied: true, Score: comment.Score}, nil
}

// PostVoteOf returns userID's standing vote on a post. Hidden or missing posts report NoVote.
func (s *Store) PostVoteOf(postID int64, userID string) Direction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.visiblePost(postID) == nil {
		return NoVote
	}
	return s.postBallots[postID].direction(userID)
}

// CommentVoteOf returns userID's standing vote on a comment.
func (s *Store) CommentVoteOf(commentID int64, userID string) Direction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.visibleComment(commentID) == nil {
		return NoVote
	}
	return s.commentBallots[commentID].direction(userID)
}
