package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/rankbbs/config"
	"github.com/cppla/rankbbs/store"
	"github.com/cppla/rankbbs/utils"
)

// CommentController serves comment creation, votes and branch expansion.
type CommentController struct {
	store *store.Store
	hub   *utils.Hub
	cfg   config.AppConfig
}

// NewCommentController creates a new CommentController instance.
func NewCommentController(s *store.Store, hub *utils.Hub, cfg config.AppConfig) *CommentController {
	return &CommentController{store: s, hub: hub, cfg: cfg}
}

type createCommentRequest struct {
	Author          string `json:"author"`
	Text            string `json:"text"`
	ParentPostID    *int64 `json:"parent_post_id"`
	ParentCommentID *int64 `json:"parent_comment_id"`
	State           string `json:"state"`
}

// CreateComment stores a top-level comment or a reply.
func (c *CommentController) CreateComment(ctx *gin.Context) {
	var req createCommentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	if (req.ParentPostID == nil) == (req.ParentCommentID == nil) {
		utils.Error(ctx, http.StatusBadRequest, utils.CodeMalformedComment, store.ErrMalformedComment.Error())
		return
	}

	state, err := store.ParseCommentState(req.State)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40032, err.Error())
		return
	}

	author, ok := actingUser(ctx, c.cfg.AuthEnabled, req.Author)
	if !ok {
		return
	}
	if author == "" {
		utils.Error(ctx, http.StatusBadRequest, 40033, "author is required")
		return
	}

	comment, err := c.store.CreateComment(store.NewComment{
		Author:          author,
		Text:            req.Text,
		ParentPostID:    req.ParentPostID,
		ParentCommentID: req.ParentCommentID,
		State:           state,
	})
	switch {
	case errors.Is(err, store.ErrInvalidUser):
		utils.Error(ctx, http.StatusBadRequest, 40033, "author is required")
		return
	case errors.Is(err, store.ErrMalformedComment):
		utils.Error(ctx, http.StatusBadRequest, utils.CodeMalformedComment, err.Error())
		return
	case errors.Is(err, store.ErrDanglingParent):
		utils.Error(ctx, http.StatusNotFound, utils.CodeDanglingParent, "parent not found")
		return
	case errors.Is(err, store.ErrInvalidState):
		utils.Error(ctx, http.StatusBadRequest, 40032, err.Error())
		return
	case err != nil:
		utils.S().Errorw("create comment failed", append(requestLogFields(ctx), "error", err)...)
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to create comment")
		return
	}

	if !comment.Hidden() {
		c.hub.Publish(utils.EventCommentCreated, toCommentDTO(comment))
	}
	utils.Created(ctx, gin.H{"comment_id": comment.ID})
}

// VoteComment records an up or down vote on a comment.
func (c *CommentController) VoteComment(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req voteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40030, "invalid request payload")
		return
	}

	userID, ok := actingUser(ctx, c.cfg.AuthEnabled, req.UserID)
	if !ok {
		return
	}

	res, err := c.store.VoteComment(id, userID, *req.IsUpvote)
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Respond(ctx, http.StatusNotFound, utils.CodeCommentNotFound, "comment not found", toVoteDTO(res))
		return
	case errors.Is(err, store.ErrInvalidUser):
		utils.Error(ctx, http.StatusBadRequest, 40034, "user_id is required")
		return
	case err != nil:
		utils.S().Errorw("vote comment failed", append(requestLogFields(ctx), "error", err)...)
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to vote")
		return
	}

	if res.Applied {
		c.hub.Publish(utils.EventCommentVoted, gin.H{"comment_id": id, "score": res.Score})
	}
	utils.Success(ctx, toVoteDTO(res))
}

// ExpandBranch returns the ranked replies of a comment, each with its own ranked replies.
func (c *CommentController) ExpandBranch(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	limit, err := parseLimit(ctx.Query("limit"), c.cfg.DefaultListLimit, c.cfg.MaxListLimit)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40035, err.Error())
		return
	}

	utils.Success(ctx, gin.H{"branches": toBranchDTOs(c.store.ExpandBranch(id, limit))})
}
