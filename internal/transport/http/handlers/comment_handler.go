package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/lib/sl"
	"github.com/vedran77/ripple/internal/service"
	"github.com/vedran77/ripple/internal/transport/http/middleware"
	"github.com/vedran77/ripple/pkg/validator"
)

type CommentHandler struct {
	commentService *service.CommentService
	logger         *slog.Logger
}

func NewCommentHandler(commentService *service.CommentService, logger *slog.Logger) *CommentHandler {
	return &CommentHandler{commentService: commentService, logger: logger}
}

func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	postID, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}

	var input struct {
		Comment string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateComment(input.Comment); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	comment, err := h.commentService.Create(r.Context(), userID, postID, input.Comment)
	if err != nil {
		h.respondCommentErr(w, err, "create comment")
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) Get(w http.ResponseWriter, r *http.Request) {
	commentID, ok := h.commentID(w, r)
	if !ok {
		return
	}

	comment, err := h.commentService.Get(r.Context(), commentID)
	if err != nil {
		h.respondCommentErr(w, err, "get comment")
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) ListByPost(w http.ResponseWriter, r *http.Request) {
	postID, err := uuid.Parse(r.PathValue("postId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid post ID")
		return
	}

	comments, err := h.commentService.ListByPost(r.Context(), postID)
	if err != nil {
		h.respondCommentErr(w, err, "list comments")
		return
	}

	writeJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	commentID, ok := h.commentID(w, r)
	if !ok {
		return
	}

	if err := h.commentService.Delete(r.Context(), userID, commentID); err != nil {
		if errors.Is(err, service.ErrNotCommentAuthor) {
			writeError(w, http.StatusForbidden, "FORBIDDEN", "Only the author can delete this comment")
			return
		}
		h.respondCommentErr(w, err, "delete comment")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Comment deleted"})
}

func (h *CommentHandler) Like(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	commentID, ok := h.commentID(w, r)
	if !ok {
		return
	}

	comment, err := h.commentService.Like(r.Context(), userID, commentID)
	if err != nil {
		if errors.Is(err, service.ErrCommentAlreadyLiked) {
			writeError(w, http.StatusConflict, "ALREADY_LIKED", "Comment already liked")
			return
		}
		h.respondCommentErr(w, err, "like comment")
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	commentID, ok := h.commentID(w, r)
	if !ok {
		return
	}

	comment, err := h.commentService.Unlike(r.Context(), userID, commentID)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotLiked) {
			writeError(w, http.StatusConflict, "NOT_LIKED", "User has not liked this comment")
			return
		}
		h.respondCommentErr(w, err, "unlike comment")
		return
	}

	writeJSON(w, http.StatusOK, comment)
}

func (h *CommentHandler) commentID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	commentID, err := uuid.Parse(r.PathValue("commentId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid comment ID")
		return uuid.Nil, false
	}
	return commentID, true
}

func (h *CommentHandler) respondCommentErr(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrCommentNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Comment not found")
	case errors.Is(err, service.ErrPostNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Post not found")
	default:
		h.logger.Error(op+" failed", sl.Err(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}
