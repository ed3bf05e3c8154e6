package http

import (
	"encoding/json"
	"net/http"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/service"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/httpx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/jwtx"
)

// AuthHandler owns the credential endpoints: login/logout, user
// provisioning, the verification and reset flows and account lifecycle.
type AuthHandler struct {
	AuthService         *service.AuthService
	VerificationService *service.VerificationService
	UserService         *service.UserService

	CookieSecret []byte
	SecureCookie bool
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" || req.Password == "" {
		writeBadRequest(w, "login and password are required")
		return
	}

	session, err := h.AuthService.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.SetSessionCookie(w, session.Token, h.CookieSecret, h.SecureCookie, jwtx.LoginSessionTTL)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, LoginResponse{
		User: toUserResponse(service.Profile{
			User:     session.User,
			Username: session.Account.Username,
			IsActive: session.Account.IsActive,
			Role:     session.Role,
		}),
	})
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	httpx.ClearSessionCookie(w)
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

func (h *AuthHandler) HandleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "malformed request body")
		return
	}
	if req.Username == "" || req.Email == "" || req.Password == "" || req.RoleID == "" {
		writeBadRequest(w, "username, email, password and roleId are required")
		return
	}
	if req.Name == "" {
		req.Name = req.Username
	}

	user, err := h.AuthService.CreateUser(r.Context(), service.NewUserInput{
		Username: req.Username,
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		RoleID:   req.RoleID,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	profile, err := h.UserService.GetProfile(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toUserResponse(profile))
}

func (h *AuthHandler) HandleRequestEmailVerification(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing identity")
		return
	}

	if err := h.VerificationService.RequestEmailVerification(r.Context(), id.UserID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "sent"})
}

func (h *AuthHandler) HandleVerifyEmail(w http.ResponseWriter, r *http.Request) {
	var req KeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" {
		writeBadRequest(w, "key is required")
		return
	}

	if err := h.VerificationService.VerifyEmail(r.Context(), req.Key); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "verified"})
}

func (h *AuthHandler) HandleRequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Login == "" {
		writeBadRequest(w, "login is required")
		return
	}

	if err := h.VerificationService.RequestPasswordReset(r.Context(), req.Login); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "sent"})
}

func (h *AuthHandler) HandleResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Key == "" || req.NewPassword == "" {
		writeBadRequest(w, "key and newPassword are required")
		return
	}

	if err := h.VerificationService.ResetPassword(r.Context(), req.Key, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "reset"})
}

func (h *AuthHandler) HandleUpdatePassword(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing identity")
		return
	}

	var req UpdatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OldPassword == "" || req.NewPassword == "" {
		writeBadRequest(w, "oldPassword and newPassword are required")
		return
	}

	if err := h.AuthService.UpdatePassword(r.Context(), id.AccountID, req.OldPassword, req.NewPassword); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
}

func (h *AuthHandler) HandleActivateAccount(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, true)
}

func (h *AuthHandler) HandleDeactivateAccount(w http.ResponseWriter, r *http.Request) {
	h.setActive(w, r, false)
}

func (h *AuthHandler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	var req AccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.AccountID == "" {
		writeBadRequest(w, "accountId is required")
		return
	}

	if err := h.AuthService.SetAccountActive(r.Context(), req.AccountID, active); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "updated"})
}

// HandleRemoveUser deletes another account by id (admin operation).
func (h *AuthHandler) HandleRemoveUser(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("accountId")
	if accountID == "" {
		writeBadRequest(w, "accountId is required")
		return
	}

	if err := h.AuthService.DeleteAccount(r.Context(), accountID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}

// HandleDeleteAccount deletes the caller's own account and clears the
// session cookie.
func (h *AuthHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := httpx.IdentityFromContext(r.Context())
	if !ok {
		writeBadRequest(w, "missing identity")
		return
	}

	if err := h.AuthService.DeleteAccount(r.Context(), id.AccountID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.ClearSessionCookie(w)
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}
