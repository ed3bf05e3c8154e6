package http

import (
	"encoding/json"
	"net/http"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/service"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/httpx"
)

type UsersHandler struct {
	UserService *service.UserService
}

// HandleGetUser returns the caller's own profile.
func (h *UsersHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing identity")
		return
	}

	profile, err := h.UserService.GetProfile(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUserResponse(profile))
}

func (h *UsersHandler) HandleGetAllUsers(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.UserService.ListProfiles(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]UserResponse, len(profiles))
	for i, p := range profiles {
		out[i] = toUserResponse(p)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdateAvatar regenerates the caller's avatar.
func (h *UsersHandler) HandleUpdateAvatar(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing identity")
		return
	}

	key, err := h.UserService.RegenerateAvatar(r.Context(), id.UserID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]string{"avatar": key})
}

// HandleUpdateName changes the caller's display name.
func (h *UsersHandler) HandleUpdateName(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing identity")
		return
	}
	h.updateName(w, r, id.UserID)
}

// HandleUpdateUserName changes another user's display name.
func (h *UsersHandler) HandleUpdateUserName(w http.ResponseWriter, r *http.Request) {
	h.updateName(w, r, "")
}

func (h *UsersHandler) updateName(w http.ResponseWriter, r *http.Request, userID string) {
	var req UpdateNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}
	if userID == "" {
		userID = req.UserID
	}
	if userID == "" {
		writeBadRequest(w, "userId is required")
		return
	}

	if err := h.UserService.UpdateName(r.Context(), userID, req.Name); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
}

// HandleUpdateEmail changes the caller's email address.
func (h *UsersHandler) HandleUpdateEmail(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing identity")
		return
	}
	h.updateEmail(w, r, id.UserID)
}

// HandleUpdateUserEmail changes another user's email address.
func (h *UsersHandler) HandleUpdateUserEmail(w http.ResponseWriter, r *http.Request) {
	h.updateEmail(w, r, "")
}

func (h *UsersHandler) updateEmail(w http.ResponseWriter, r *http.Request, userID string) {
	var req UpdateEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		writeBadRequest(w, "email is required")
		return
	}
	if userID == "" {
		userID = req.UserID
	}
	if userID == "" {
		writeBadRequest(w, "userId is required")
		return
	}

	if err := h.UserService.UpdateEmail(r.Context(), userID, req.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
}

func (h *UsersHandler) HandleUpdateRole(w http.ResponseWriter, r *http.Request) {
	var req UpdateUserRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" || req.RoleID == "" {
		writeBadRequest(w, "userId and roleId are required")
		return
	}

	if err := h.UserService.UpdateRole(r.Context(), req.UserID, req.RoleID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
}
