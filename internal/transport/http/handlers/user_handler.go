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

type UserHandler struct {
	userService *service.UserService
	logger      *slog.Logger
}

func NewUserHandler(userService *service.UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{userService: userService, logger: logger}
}

func (h *UserHandler) Self(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userService.Self(r.Context(), userID)
	if err != nil {
		h.respondUserErr(w, err, "get self")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	profile, err := h.userService.Get(r.Context(), id)
	if err != nil {
		h.respondUserErr(w, err, "get user")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) GetByUsername(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	profile, err := h.userService.GetByUsername(r.Context(), username)
	if err != nil {
		h.respondUserErr(w, err, "get user by username")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) Username(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("userId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	username, err := h.userService.UsernameOf(r.Context(), id)
	if err != nil {
		h.respondUserErr(w, err, "get username")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}

func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.List(r.Context())
	if err != nil {
		h.logger.Error("list users failed", sl.Err(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")

	users, err := h.userService.Search(r.Context(), term)
	if err != nil {
		if errors.Is(err, service.ErrNoUsersFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "No users found")
			return
		}
		h.logger.Error("search users failed", sl.Err(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateProfileUpdate(input.Name, input.Bio, input.Password); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		h.respondUserErr(w, err, "update profile")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	if err := h.userService.DeleteAccount(r.Context(), userID); err != nil {
		h.respondUserErr(w, err, "delete account")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "User deleted"})
}

func (h *UserHandler) respondUserErr(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, service.ErrUserNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "User not found")
		return
	}
	h.logger.Error(op+" failed", sl.Err(err))
	writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
}
