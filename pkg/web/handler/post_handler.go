package handler

import (
	"context"
	"errors"
	"fmt"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	apperrors "dofe-blog/pkg/common/errors"
	"dofe-blog/pkg/common/metrics"
	postservice "dofe-blog/pkg/core/post/service"
	"dofe-blog/pkg/web/middleware"
	"dofe-blog/pkg/web/model"
)

type PostHandler struct {
	*Renderer
	posts *postservice.PostService
}

func NewPostHandler(r *Renderer, posts *postservice.PostService) *PostHandler {
	return &PostHandler{Renderer: r, posts: posts}
}

func (h *PostHandler) Index(ctx context.Context, c *app.RequestContext) {
	posts, err := h.posts.List(ctx)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	h.page(ctx, c, 200, "index.html", utils.H{"Title": "Posts", "Posts": posts})
}

func (h *PostHandler) CreateForm(ctx context.Context, c *app.RequestContext) {
	if !middleware.SessionFrom(c).Authenticated() {
		redirectWithFlash(c, "/login", apperrors.ErrUnauthenticated.Error())
		return
	}
	h.page(ctx, c, 200, "post_form.html", utils.H{"Title": "New post", "Action": "/create"})
}

func (h *PostHandler) Create(ctx context.Context, c *app.RequestContext) {
	var req model.PostReq
	if err := c.BindAndValidate(&req); err != nil {
		redirectWithFlash(c, "/create", apperrors.ErrValidation.Error())
		return
	}

	_, err := h.posts.Create(ctx, middleware.SessionFrom(c), req.Title, req.Content)
	metrics.PostOperations.WithLabelValues("create", outcome(err)).Inc()
	switch {
	case errors.Is(err, apperrors.ErrUnauthenticated):
		redirectWithFlash(c, "/login", apperrors.Message(err))
	case errors.Is(err, apperrors.ErrValidation):
		redirectWithFlash(c, "/create", apperrors.Message(err))
	case err != nil:
		h.fail(ctx, c, err)
	default:
		redirectWithFlash(c, "/", "Post created")
	}
}

func (h *PostHandler) UpdateForm(ctx context.Context, c *app.RequestContext) {
	id, err := postID(c)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	post, err := h.posts.GetForEdit(ctx, middleware.SessionFrom(c), id)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	h.page(ctx, c, 200, "post_form.html", utils.H{
		"Title":  "Edit post",
		"Action": fmt.Sprintf("/post/%d/update", post.ID),
		"Post":   post,
	})
}

func (h *PostHandler) Update(ctx context.Context, c *app.RequestContext) {
	id, err := postID(c)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	var req model.PostReq
	if err := c.BindAndValidate(&req); err != nil {
		redirectWithFlash(c, fmt.Sprintf("/post/%d/update", id), apperrors.ErrValidation.Error())
		return
	}

	_, err = h.posts.Update(ctx, middleware.SessionFrom(c), id, req.Title, req.Content)
	metrics.PostOperations.WithLabelValues("update", outcome(err)).Inc()
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		redirectWithFlash(c, fmt.Sprintf("/post/%d/update", id), apperrors.Message(err))
	case err != nil:
		h.fail(ctx, c, err)
	default:
		redirectWithFlash(c, "/", "Post updated")
	}
}

func (h *PostHandler) Delete(ctx context.Context, c *app.RequestContext) {
	id, err := postID(c)
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	err = h.posts.Delete(ctx, middleware.SessionFrom(c), id)
	metrics.PostOperations.WithLabelValues("delete", outcome(err)).Inc()
	if err != nil {
		h.fail(ctx, c, err)
		return
	}
	redirectWithFlash(c, "/", "Post deleted")
}
