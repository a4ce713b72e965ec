package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cppla/rankbbs/models"
	"github.com/cppla/rankbbs/store"
)

func TestParseLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", 10, false},
		{"0", 0, false},
		{"7", 7, false},
		{"100", 100, false},
		{"5000", 100, false},
		{"-1", 0, true},
		{"ten", 0, true},
		{"1.5", 0, true},
	}
	for _, tt := range tests {
		got, err := parseLimit(tt.raw, 10, 100)
		if tt.wantErr {
			assert.ErrorIs(t, err, errBadLimit, tt.raw)
			continue
		}
		require.NoError(t, err, tt.raw)
		assert.Equal(t, tt.want, got, tt.raw)
	}
}

func TestDTOMapping(t *testing.T) {
	t.Parallel()

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.FixedZone("x", 3600))
	post := toPostDTO(models.Post{
		ID:         4,
		Title:      "t",
		Attachment: &models.Attachment{URL: "u", Kind: models.AttachmentVideo},
		Score:      -2,
		State:      models.PostStateLocked,
		CreatedAt:  at,
	})
	assert.Equal(t, "locked", post.State)
	assert.Equal(t, &AttachmentDTO{URL: "u", Kind: "video"}, post.Attachment)
	assert.Equal(t, "2024-01-02T02:04:05Z", post.CreatedAt)

	parent := int64(9)
	ranked := toRankedDTOs([]store.RankedComment{{
		Comment:    models.Comment{ID: 1, ParentCommentID: &parent, State: models.CommentStateNormal},
		HasReplies: true,
	}})
	require.Len(t, ranked, 1)
	assert.True(t, ranked[0].HasReplies)
	assert.Nil(t, ranked[0].Comment.ParentPostID)
	assert.Equal(t, int64(9), *ranked[0].Comment.ParentCommentID)

	branches := toBranchDTOs([]store.Branch{{Comment: models.Comment{ID: 2}}})
	require.Len(t, branches, 1)
	assert.NotNil(t, branches[0].Replies)
	assert.Empty(t, branches[0].Replies)

	assert.Equal(t, VoteDTO{Success: false, Score: 3}, toVoteDTO(store.VoteResult{Applied: false, Score: 3}))
}
