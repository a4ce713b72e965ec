package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/rankbbs/models"
	"github.com/cppla/rankbbs/store"
)

func texts(comments []models.Comment) []string {
	out := make([]string, 0, len(comments))
	for _, c := range comments {
		out = append(out, c.Text)
	}
	return out
}

func rankedTexts(ranked []store.RankedComment) []string {
	out := make([]string, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Comment.Text)
	}
	return out
}

func TestTopCommentsStableOnTies(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "t"})
	for _, c := range []struct {
		text  string
		score int64
	}{
		{"A", 5},
		{"B", 5},
		{"C", 3},
	} {
		mustComment(t, s, store.NewComment{Author: "u", Text: c.text, ParentPostID: ptr(p.ID), InitialScore: c.score})
	}

	assert.Equal(t, []string{"A", "B"}, rankedTexts(s.TopComments(p.ID, 2)))
	assert.Equal(t, []string{"A", "B", "C"}, rankedTexts(s.TopComments(p.ID, 3)))
}

func TestTopCommentsTieBreakAcrossManyEntries(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "t"})
	want := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		c := mustComment(t, s, store.NewComment{Author: "u", Text: string(rune('a' + i)), ParentPostID: ptr(p.ID)})
		want = append(want, c.Text)
	}

	assert.Equal(t, want, rankedTexts(s.TopComments(p.ID, 100)))
}

func TestHiddenCommentNeverSurfaces(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "t"})
	top := mustComment(t, s, store.NewComment{Author: "u", Text: "top", ParentPostID: ptr(p.ID)})
	mustComment(t, s, store.NewComment{
		Author:       "u",
		Text:         "hidden-top",
		ParentPostID: ptr(p.ID),
		State:        models.CommentStateHidden,
		InitialScore: 1000,
	})
	reply := mustComment(t, s, store.NewComment{Author: "u", Text: "reply", ParentCommentID: ptr(top.ID)})
	mustComment(t, s, store.NewComment{
		Author:          "u",
		Text:            "hidden-reply",
		ParentCommentID: ptr(top.ID),
		State:           models.CommentStateHidden,
		InitialScore:    1000,
	})
	mustComment(t, s, store.NewComment{
		Author:          "u",
		Text:            "hidden-nested",
		ParentCommentID: ptr(reply.ID),
		State:           models.CommentStateHidden,
		InitialScore:    1000,
	})

	for _, n := range []int{1, 2, 5, 100} {
		assert.Equal(t, []string{"top"}, rankedTexts(s.TopComments(p.ID, n)))

		branches := s.ExpandBranch(top.ID, n)
		require.Len(t, branches, 1)
		assert.Equal(t, "reply", branches[0].Comment.Text)
		assert.Empty(t, branches[0].Replies)
	}
}

func TestExpandBranchTruncatesBothLevels(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "t"})
	root := mustComment(t, s, store.NewComment{Author: "u", Text: "root", ParentPostID: ptr(p.ID)})

	for _, r := range []struct {
		text  string
		score int64
	}{
		{"r1", 1},
		{"r10", 10},
		{"r5", 5},
	} {
		reply := mustComment(t, s, store.NewComment{
			Author:          "u",
			Text:            r.text,
			ParentCommentID: ptr(root.ID),
			InitialScore:    r.score,
		})
		for i, score := range []int64{2, 7, 4} {
			mustComment(t, s, store.NewComment{
				Author:          "u",
				Text:            r.text + "-" + string(rune('a'+i)),
				ParentCommentID: ptr(reply.ID),
				InitialScore:    score,
			})
		}
	}

	branches := s.ExpandBranch(root.ID, 2)
	require.Len(t, branches, 2)

	assert.Equal(t, "r10", branches[0].Comment.Text)
	assert.Equal(t, []string{"r10-b", "r10-c"}, texts(branches[0].Replies))

	assert.Equal(t, "r5", branches[1].Comment.Text)
	assert.Equal(t, []string{"r5-b", "r5-c"}, texts(branches[1].Replies))
}

func TestExpandBranchStopsAtSecondLevel(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "t"})
	root := mustComment(t, s, store.NewComment{Author: "u", Text: "root", ParentPostID: ptr(p.ID)})
	l1 := mustComment(t, s, store.NewComment{Author: "u", Text: "l1", ParentCommentID: ptr(root.ID)})
	l2 := mustComment(t, s, store.NewComment{Author: "u", Text: "l2", ParentCommentID: ptr(l1.ID)})
	mustComment(t, s, store.NewComment{Author: "u", Text: "l3", ParentCommentID: ptr(l2.ID)})

	branches := s.ExpandBranch(root.ID, 10)
	require.Len(t, branches, 1)
	assert.Equal(t, []string{"l2"}, texts(branches[0].Replies))

	// expanding a reply works the same way
	branches = s.ExpandBranch(l1.ID, 10)
	require.Len(t, branches, 1)
	assert.Equal(t, "l2", branches[0].Comment.Text)
	assert.Equal(t, []string{"l3"}, texts(branches[0].Replies))
}

func TestHasRepliesIsExistenceOnly(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "t"})
	onlyHidden := mustComment(t, s, store.NewComment{Author: "u", Text: "only-hidden", ParentPostID: ptr(p.ID), InitialScore: 3})
	withReply := mustComment(t, s, store.NewComment{Author: "u", Text: "with-reply", ParentPostID: ptr(p.ID), InitialScore: 2})
	mustComment(t, s, store.NewComment{Author: "u", Text: "lonely", ParentPostID: ptr(p.ID), InitialScore: 1})

	mustComment(t, s, store.NewComment{
		Author:          "u",
		ParentCommentID: ptr(onlyHidden.ID),
		State:           models.CommentStateHidden,
	})
	mustComment(t, s, store.NewComment{Author: "u", ParentCommentID: ptr(withReply.ID), InitialScore: -50})

	ranked := s.TopComments(p.ID, 10)
	require.Len(t, ranked, 3)
	assert.False(t, ranked[0].HasReplies)
	assert.True(t, ranked[1].HasReplies)
	assert.False(t, ranked[2].HasReplies)
}

func TestRankingEdgeCases(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "t"})
	emptyPost := mustPost(t, s, store.NewPost{Title: "empty"})
	c := mustComment(t, s, store.NewComment{Author: "u", Text: "only", ParentPostID: ptr(p.ID)})
	mustComment(t, s, store.NewComment{Author: "u", Text: "r", ParentCommentID: ptr(c.ID)})

	t.Run("zero limit", func(t *testing.T) {
		assert.Empty(t, s.TopComments(p.ID, 0))
		assert.Empty(t, s.ExpandBranch(c.ID, 0))
	})

	t.Run("negative limit", func(t *testing.T) {
		assert.Empty(t, s.TopComments(p.ID, -1))
		assert.Empty(t, s.ExpandBranch(c.ID, -3))
	})

	t.Run("limit above available", func(t *testing.T) {
		assert.Len(t, s.TopComments(p.ID, 50), 1)
		assert.Len(t, s.ExpandBranch(c.ID, 50), 1)
	})

	t.Run("unknown ids", func(t *testing.T) {
		assert.Empty(t, s.TopComments(404, 5))
		assert.Empty(t, s.ExpandBranch(404, 5))
	})

	t.Run("post without comments", func(t *testing.T) {
		got := s.TopComments(emptyPost.ID, 5)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestRankingSkipsHiddenRoots(t *testing.T) {
	t.Parallel()

	s := store.New()
	visible := mustPost(t, s, store.NewPost{Title: "v"})
	root := mustComment(t, s, store.NewComment{Author: "u", Text: "root", ParentPostID: ptr(visible.ID), InitialScore: 4})
	mustComment(t, s, store.NewComment{Author: "u", Text: "other", ParentPostID: ptr(visible.ID)})

	hidden := mustPost(t, s, store.NewPost{Title: "h", State: models.PostStateHidden})
	assert.Empty(t, s.TopComments(hidden.ID, 5))

	// a reply under a hidden comment is orphaned from the visible tree
	hiddenMid := mustComment(t, s, store.NewComment{
		Author:          "u",
		Text:            "mid",
		ParentCommentID: ptr(root.ID),
		State:           models.CommentStateHidden,
	})
	assert.Empty(t, s.ExpandBranch(root.ID, 5))
	assert.Empty(t, s.ExpandBranch(hiddenMid.ID, 5))

	top := s.TopComments(visible.ID, 5)
	require.Len(t, top, 2)
	assert.Equal(t, "root", top[0].Comment.Text)
	assert.False(t, top[0].HasReplies)
}

func TestTopCommentsEndToEnd(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "P"})
	c1 := mustComment(t, s, store.NewComment{Author: "u", Text: "C1", ParentPostID: ptr(p.ID)})
	c2 := mustComment(t, s, store.NewComment{Author: "u", Text: "C2", ParentPostID: ptr(p.ID)})
	c3 := mustComment(t, s, store.NewComment{Author: "u", Text: "C3", ParentPostID: ptr(p.ID)})

	for _, u := range []string{"u1", "u2", "u3"} {
		_, err := s.VoteComment(c1.ID, u, true)
		require.NoError(t, err)
	}
	_, err := s.VoteComment(c2.ID, "u1", false)
	require.NoError(t, err)
	for _, u := range []string{"u1", "u2"} {
		_, err := s.VoteComment(c3.ID, u, true)
		require.NoError(t, err)
	}

	ranked := s.TopComments(p.ID, 2)
	require.Len(t, ranked, 2)
	assert.Equal(t, c1.ID, ranked[0].Comment.ID)
	assert.Equal(t, int64(3), ranked[0].Comment.Score)
	assert.Equal(t, c3.ID, ranked[1].Comment.ID)
	assert.Equal(t, int64(2), ranked[1].Comment.Score)
}

func TestRankingReflectsLaterVotes(t *testing.T) {
	t.Parallel()

	s := store.New()
	p := mustPost(t, s, store.NewPost{Title: "P"})
	a := mustComment(t, s, store.NewComment{Author: "u", Text: "a", ParentPostID: ptr(p.ID)})
	b := mustComment(t, s, store.NewComment{Author: "u", Text: "b", ParentPostID: ptr(p.ID)})

	before := s.TopComments(p.ID, 2)
	assert.Equal(t, []string{"a", "b"}, rankedTexts(before))

	_, err := s.VoteComment(b.ID, "x", true)
	require.NoError(t, err)
	_, err = s.VoteComment(a.ID, "x", false)
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a"}, rankedTexts(s.TopComments(p.ID, 2)))
	// earlier results are snapshots
	assert.Equal(t, int64(0), before[0].Comment.Score)
}
