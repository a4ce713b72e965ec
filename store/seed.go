package store

import (
	"fmt"

	"github.com/cppla/rankbbs/models"
)

type seedVote struct {
	user string
	up   bool
}

var (
	threeUp = []seedVote{{"user1", true}, {"user2", true}, {"user3", true}}
	twoUp   = []seedVote{{"user1", true}, {"user2", true}}
	oneDown = []seedVote{{"user1", false}}
)

// Seed fills s with the demo board: five posts covering every state and
// attachment kind, a ranked comment tree under post 0 and a hidden comment
// whose high score must never surface.
func Seed(s *Store) error {
	for _, u := range []string{"user1", "user2", "user3"} {
		if err := s.CreateUser(u); err != nil {
			return fmt.Errorf("seed user %s: %w", u, err)
		}
	}

	posts := []NewPost{
		{Title: "post1", Body: "post1_content", Author: "user1"},
		{Title: "post2image", Body: "post2_content_image", Author: "user2",
			Attachment: &models.Attachment{URL: "img.url.example", Kind: models.AttachmentImage}},
		{Title: "post3video", Body: "post3_content_video", Author: "user3",
			Attachment: &models.Attachment{URL: "video.url.example", Kind: models.AttachmentVideo}},
		{Title: "post4locked", Body: "post4_content_locked", Author: "user1", State: models.PostStateLocked},
		{Title: "post5hidden", Body: "post5_content_hidden", Author: "user2", State: models.PostStateHidden},
	}
	var first models.Post
	for i, p := range posts {
		created, err := s.CreatePost(p)
		if err != nil {
			return fmt.Errorf("seed post %s: %w", p.Title, err)
		}
		if i == 0 {
			first = created
		}
	}

	underPost := func(author, text string, votes []seedVote) (int64, error) {
		return seedComment(s, NewComment{Author: author, Text: text, ParentPostID: &first.ID}, votes)
	}
	underComment := func(parent int64, author, text string, votes []seedVote) (int64, error) {
		return seedComment(s, NewComment{Author: author, Text: text, ParentCommentID: &parent}, votes)
	}

	c0, err := underPost("user1", "comment0", threeUp)
	if err != nil {
		return err
	}
	if _, err := underPost("user2", "comment1", oneDown); err != nil {
		return err
	}
	if _, err := underPost("user3", "comment2", twoUp); err != nil {
		return err
	}

	c00, err := underComment(c0, "user1", "comment00", threeUp)
	if err != nil {
		return err
	}
	for _, r := range []struct {
		author, text string
		votes        []seedVote
	}{
		{"user2", "comment01", nil},
		{"user2", "comment02", twoUp},
		{"user3", "comment03", oneDown},
	} {
		if _, err := underComment(c0, r.author, r.text, r.votes); err != nil {
			return err
		}
	}

	for _, r := range []struct {
		author, text string
		votes        []seedVote
	}{
		{"user1", "comment000", threeUp},
		{"user2", "comment001", oneDown},
		{"user2", "comment002", twoUp},
	} {
		if _, err := underComment(c00, r.author, r.text, r.votes); err != nil {
			return err
		}
	}

	_, err = seedComment(s, NewComment{
		Author:       "user1",
		Text:         "hidden_comment",
		ParentPostID: &first.ID,
		State:        models.CommentStateHidden,
		InitialScore: 100,
	}, nil)
	return err
}

func seedComment(s *Store, req NewComment, votes []seedVote) (int64, error) {
	c, err := s.CreateComment(req)
	if err != nil {
		return 0, fmt.Errorf("seed comment %s: %w", req.Text, err)
	}
	for _, v := range votes {
		if _, err := s.VoteComment(c.ID, v.user, v.up); err != nil {
			return 0, fmt.Errorf("seed vote on %s: %w", req.Text, err)
		}
	}
	return c.ID, nil
}
