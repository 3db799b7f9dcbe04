package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/lib/sl"
	"github.com/vedran77/ripple/internal/service"
	"github.com/vedran77/ripple/internal/transport/http/middleware"
	"github.com/vedran77/ripple/pkg/validator"
)

type PostHandler struct {
	postService *service.PostService
	logger      *slog.Logger
}

func NewPostHandler(postService *service.PostService, logger *slog.Logger) *PostHandler {
	return &PostHandler{postService: postService, logger: logger}
}

func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.CreatePostInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidatePost(input.Text); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	post, err := h.postService.Create(r.Context(), userID, input)
	if err != nil {
		h.respondPostErr(w, err, "create post")
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) {
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Get(r.Context(), postID)
	if err != nil {
		h.respondPostErr(w, err, "get post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.ListAll(r.Context())
	if err != nil {
		h.respondPostErr(w, err, "list posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) ListByTags(w http.ResponseWriter, r *http.Request) {
	tags := strings.Split(r.PathValue("tags"), ",")

	posts, err := h.postService.ListByTags(r.Context(), tags)
	if err != nil {
		h.respondPostErr(w, err, "list posts by tags")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) ListByUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	posts, err := h.postService.ListByUser(r.Context(), userID)
	if err != nil {
		h.respondPostErr(w, err, "list user posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) ListByUserPage(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_PAGE", "Invalid page number")
		return
	}

	posts, err := h.postService.ListByUserPage(r.Context(), userID, page)
	if err != nil {
		h.respondPostErr(w, err, "list user posts page")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Liked(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	posts, err := h.postService.LikedPosts(r.Context(), userID)
	if err != nil {
		h.respondPostErr(w, err, "list liked posts")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	posts, err := h.postService.Feed(r.Context(), userID)
	if err != nil {
		h.respondPostErr(w, err, "build feed")
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Like(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, service.ErrAlreadyLiked) {
			writeError(w, http.StatusConflict, "ALREADY_LIKED", "Post already liked")
			return
		}
		h.respondPostErr(w, err, "like post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	post, err := h.postService.Unlike(r.Context(), userID, postID)
	if err != nil {
		if errors.Is(err, service.ErrNotLiked) {
			writeError(w, http.StatusConflict, "NOT_LIKED", "User has not liked this post")
			return
		}
		h.respondPostErr(w, err, "unlike post")
		return
	}

	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, ok := h.postID(w, r)
	if !ok {
		return
	}

	if err := h.postService.Delete(r.Context(), userID, postID); err != nil {
		if errors.Is(err, service.ErrNotPostAuthor) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the author can delete this post")
			return
		}
		h.respondPostErr(w, err, "delete post")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Post deleted"})
}

func (h *PostHandler) postID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	postID, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return uuid.Nil, false
	}
	return postID, true
}

func (h *PostHandler) respondPostErr(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
	case errors.Is(err, service.ErrNoPostsFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "No posts found")
	case errors.Is(err, service.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
	default:
		h.logger.Error(op+" failed", sl.Err(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
