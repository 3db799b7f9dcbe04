package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/vedran77/ripple/internal/lib/sl"
	"github.com/vedran77/ripple/internal/service"
	"github.com/vedran77/ripple/internal/transport/http/middleware"
)

type RelationshipHandler struct {
	relService *service.RelationshipService
	logger     *slog.Logger
}

func NewRelationshipHandler(relService *service.RelationshipService, logger *slog.Logger) *RelationshipHandler {
	return &RelationshipHandler{relService: relService, logger: logger}
}

func (h *RelationshipHandler) Follow(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pair(w, r)
	if !ok {
		return
	}

	if err := h.relService.Follow(r.Context(), actorID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfRelation):
			writeError(w, http.StatusBadRequest, "SELF_FOLLOW", "You can't follow yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrBlockedByTarget):
			writeError(w, http.StatusForbidden, "BLOCKED", "Cannot follow, the user has blocked you")
		case errors.Is(err, service.ErrTargetBlocked):
			writeError(w, http.StatusForbidden, "BLOCKED", "You can't follow a blocked user")
		case errors.Is(err, service.ErrAlreadyFollowing):
			writeError(w, http.StatusConflict, "ALREADY_FOLLOWING", "You are already following this user")
		default:
			h.logger.Error("follow failed", sl.Err(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User followed"})
}

func (h *RelationshipHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pair(w, r)
	if !ok {
		return
	}

	if err := h.relService.Unfollow(r.Context(), actorID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfRelation):
			writeError(w, http.StatusBadRequest, "SELF_UNFOLLOW", "You can't unfollow yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrNotFollowing):
			writeError(w, http.StatusConflict, "NOT_FOLLOWING", "You are not following this user")
		default:
			h.logger.Error("unfollow failed", sl.Err(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User unfollowed"})
}

func (h *RelationshipHandler) Block(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pair(w, r)
	if !ok {
		return
	}

	if err := h.relService.Block(r.Context(), actorID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfRelation):
			writeError(w, http.StatusBadRequest, "SELF_BLOCK", "You can't block yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrAlreadyBlocked):
			writeError(w, http.StatusConflict, "ALREADY_BLOCKED", "You are already blocking this user")
		default:
			h.logger.Error("block failed", sl.Err(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User blocked"})
}

func (h *RelationshipHandler) Unblock(w http.ResponseWriter, r *http.Request) {
	actorID, targetID, ok := h.pair(w, r)
	if !ok {
		return
	}

	if err := h.relService.Unblock(r.Context(), actorID, targetID); err != nil {
		switch {
		case errors.Is(err, service.ErrSelfRelation):
			writeError(w, http.StatusBadRequest, "SELF_UNBLOCK", "You can't unblock yourself")
		case errors.Is(err, service.ErrUserNotFound):
			writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		case errors.Is(err, service.ErrNotBlocked):
			writeError(w, http.StatusConflict, "NOT_BLOCKED", "You have not blocked this user")
		default:
			h.logger.Error("unblock failed", sl.Err(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User unblocked"})
}

func (h *RelationshipHandler) pair(w http.ResponseWriter, r *http.Request) (actorID, targetID uuid.UUID, ok bool) {
	actorID = middleware.GetUserID(r.Context())
	targetID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return uuid.Nil, uuid.Nil, false
	}
	return actorID, targetID, true
}
