package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cppla/rankbbs/config"
	"github.com/cppla/rankbbs/models"
	"github.com/cppla/rankbbs/store"
	"github.com/cppla/rankbbs/utils"
)

// PostController serves post creation, lookup, votes and top comments.
type PostController struct {
	store *store.Store
	hub   *utils.Hub
	cfg   config.AppConfig
}

// NewPostController creates a new PostController instance.
func NewPostController(s *store.Store, hub *utils.Hub, cfg config.AppConfig) *PostController {
	return &PostController{store: s, hub: hub, cfg: cfg}
}

type attachmentRequest struct {
	URL  string `json:"url"`
	Kind string `json:"kind"`
}

type createPostRequest struct {
	Title      string             `json:"title"`
	Body       string             `json:"body"`
	Attachment *attachmentRequest `json:"attachment"`
	Author     string             `json:"author"`
	State      string             `json:"state"`
}

type voteRequest struct {
	UserID   string `json:"user_id"`
	IsUpvote *bool  `json:"is_upvote" binding:"required"`
}

// CreatePost stores a post and answers its id.
func (p *PostController) CreatePost(ctx *gin.Context) {
	var req createPostRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	state, err := store.ParsePostState(req.State)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40021, err.Error())
		return
	}

	var attachment *models.Attachment
	if req.Attachment != nil {
		kind, err := store.ParseAttachmentKind(req.Attachment.Kind)
		if err != nil {
			utils.Error(ctx, http.StatusBadRequest, 40022, err.Error())
			return
		}
		attachment = &models.Attachment{URL: req.Attachment.URL, Kind: kind}
	}

	author, ok := actingUser(ctx, p.cfg.AuthEnabled, req.Author)
	if !ok {
		return
	}

	post, err := p.store.CreatePost(store.NewPost{
		Title:      req.Title,
		Body:       req.Body,
		Attachment: attachment,
		Author:     author,
		State:      state,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidAttachment) || errors.Is(err, store.ErrInvalidState) {
			utils.Error(ctx, http.StatusBadRequest, 40023, err.Error())
			return
		}
		utils.S().Errorw("create post failed", append(requestLogFields(ctx), "error", err)...)
		utils.Error(ctx, http.StatusInternalServerError, 50020, "failed to create post")
		return
	}

	if !post.Hidden() {
		p.hub.Publish(utils.EventPostCreated, toPostDTO(post))
	}
	utils.Created(ctx, gin.H{"post_id": post.ID})
}

// GetPost returns a visible post.
func (p *PostController) GetPost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	post, err := p.store.GetPost(id)
	if err != nil {
		utils.Error(ctx, http.StatusNotFound, utils.CodePostNotFound, "post not found")
		return
	}

	utils.Success(ctx, toPostDTO(post))
}

// VotePost records an up or down vote on a post.
// A repeated vote in the same direction answers success=false with the standing score.
func (p *PostController) VotePost(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	var req voteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	userID, ok := actingUser(ctx, p.cfg.AuthEnabled, req.UserID)
	if !ok {
		return
	}

	res, err := p.store.VotePost(id, userID, *req.IsUpvote)
	switch {
	case errors.Is(err, store.ErrNotFound):
		utils.Respond(ctx, http.StatusNotFound, utils.CodePostNotFound, "post not found", toVoteDTO(res))
		return
	case errors.Is(err, store.ErrInvalidUser):
		utils.Error(ctx, http.StatusBadRequest, 40024, "user_id is required")
		return
	case err != nil:
		utils.S().Errorw("vote post failed", append(requestLogFields(ctx), "error", err)...)
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to vote")
		return
	}

	if res.Applied {
		p.hub.Publish(utils.EventPostVoted, gin.H{"post_id": id, "score": res.Score})
	}
	utils.Success(ctx, toVoteDTO(res))
}

// TopComments lists the highest scored comments directly under a post.
func (p *PostController) TopComments(ctx *gin.Context) {
	id, ok := parseID(ctx, "id")
	if !ok {
		return
	}

	limit, err := parseLimit(ctx.Query("limit"), p.cfg.DefaultListLimit, p.cfg.MaxListLimit)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40025, err.Error())
		return
	}

	utils.Success(ctx, gin.H{"comments": toRankedDTOs(p.store.TopComments(id, limit))})
}
