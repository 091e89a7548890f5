package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"luxejournal/internal/app"
	"luxejournal/internal/transport/http/middleware"
)

type PostHandler struct {
	postService *app.PostService
}

func NewPostHandler(postService *app.PostService) *PostHandler {
	return &PostHandler{postService: postService}
}

func (h *PostHandler) Home(c *gin.Context) {
	posts, err := h.postService.List(c.Request.Context())
	if err != nil {
		renderError(c, http.StatusInternalServerError, "Could not load posts.")
		return
	}
	render(c, http.StatusOK, "home.html", gin.H{
		"Posts": posts,
	})
}

// Show serves GET /post/:id. The "new" segment is the post form, which
// shares the wildcard because the router cannot mix it with a static
// sibling; every other value is a public detail view with no ownership
// check.
func (h *PostHandler) Show(c *gin.Context) {
	if c.Param("id") == "new" {
		h.showNew(c)
		return
	}
	h.detail(c)
}

// Submit serves POST /post/:id; only the "new" segment accepts a body.
func (h *PostHandler) Submit(c *gin.Context) {
	if c.Param("id") == "new" {
		h.create(c)
		return
	}
	renderNotFound(c)
}

func (h *PostHandler) detail(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.postService.Get(id)
	if err != nil {
		if errors.Is(err, app.ErrPostNotFound) {
			renderNotFound(c)
			return
		}
		renderError(c, http.StatusInternalServerError, "Could not load this post.")
		return
	}
	render(c, http.StatusOK, "post_detail.html", gin.H{
		"Post": post,
	})
}

func (h *PostHandler) showNew(c *gin.Context) {
	if _, ok := middleware.RequireUser(c); !ok {
		return
	}
	render(c, http.StatusOK, "post_new.html", gin.H{
		"Title": "",
		"Body":  "",
	})
}

func (h *PostHandler) create(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	title := c.PostForm("title")
	body := c.PostForm("body")

	post, err := h.postService.Create(c.Request.Context(), user.ID, title, body)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTitleRequired), errors.Is(err, app.ErrBodyRequired):
			middleware.AddFlash(c, "danger", err.Error())
			render(c, http.StatusOK, "post_new.html", gin.H{
				"Title": title,
				"Body":  body,
			})
		default:
			renderError(c, http.StatusInternalServerError, "Could not publish the post.")
		}
		return
	}

	middleware.AddFlash(c, "success", "Post published!")
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", post.ID))
}

func (h *PostHandler) ShowEdit(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}

	post, err := h.postService.GetOwned(id, user.ID)
	if err != nil {
		h.renderPostError(c, err, "Could not load this post.")
		return
	}
	render(c, http.StatusOK, "post_edit.html", gin.H{
		"Post":  post,
		"Title": post.Title,
		"Body":  post.Body,
	})
}

func (h *PostHandler) Update(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}
	title := c.PostForm("title")
	body := c.PostForm("body")

	err := h.postService.Update(c.Request.Context(), id, user.ID, title, body)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrTitleRequired), errors.Is(err, app.ErrBodyRequired):
			middleware.AddFlash(c, "danger", err.Error())
			post, getErr := h.postService.GetOwned(id, user.ID)
			if getErr != nil {
				h.renderPostError(c, getErr, "Could not load this post.")
				return
			}
			render(c, http.StatusOK, "post_edit.html", gin.H{
				"Post":  post,
				"Title": title,
				"Body":  body,
			})
		default:
			h.renderPostError(c, err, "Could not update the post.")
		}
		return
	}

	middleware.AddFlash(c, "success", "Post updated.")
	c.Redirect(http.StatusFound, fmt.Sprintf("/post/%d", id))
}

func (h *PostHandler) Delete(c *gin.Context) {
	user, ok := middleware.RequireUser(c)
	if !ok {
		return
	}
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.postService.Delete(c.Request.Context(), id, user.ID); err != nil {
		h.renderPostError(c, err, "Could not delete the post.")
		return
	}

	middleware.AddFlash(c, "info", "Post deleted.")
	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) renderPostError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, app.ErrPostNotFound):
		renderNotFound(c)
	case errors.Is(err, app.ErrNotPostOwner):
		renderForbidden(c)
	default:
		renderError(c, http.StatusInternalServerError, fallback)
	}
}

// postID parses the :id route param; anything unparsable renders the
// same 404 page an unknown id would.
func postID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		renderNotFound(c)
		return 0, false
	}
	return uint(id), true
}
