package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/service"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/httpx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type LoginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type CreateUserRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   string `json:"roleId"`
}

type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

type AccountRequest struct {
	AccountID string `json:"accountId"`
}

type KeyRequest struct {
	Key string `json:"key"`
}

type ResetPasswordRequest struct {
	Key         string `json:"key"`
	NewPassword string `json:"newPassword"`
}

type PasswordResetRequest struct {
	Login string `json:"login"`
}

type UpdateNameRequest struct {
	UserID string `json:"userId,omitempty"`
	Name   string `json:"name"`
}

type UpdateEmailRequest struct {
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email"`
}

type UpdateUserRoleRequest struct {
	UserID string `json:"userId"`
	RoleID string `json:"roleId"`
}

type RoleRequest struct {
	ID          string            `json:"id,omitempty"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Permission  PermissionPayload `json:"permission"`
}

type PermissionPayload struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
	Admin  bool `json:"admin"`
}

type RoleResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Permission  PermissionPayload `json:"permission"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

type UserResponse struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Avatar     string    `json:"avatar"`
	IsVerified bool      `json:"isVerified"`
	IsActive   bool      `json:"isActive"`
	AccountID  string    `json:"accountId"`
	Role       string    `json:"role"`
	CreatedAt  time.Time `json:"createdAt"`
}

type LoginResponse struct {
	User UserResponse `json:"user"`
}

func toRoleResponse(r domain.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Permission: PermissionPayload{
			Read:   r.Permission.Read,
			Write:  r.Permission.Write,
			Delete: r.Permission.Delete,
			Admin:  r.Permission.Admin,
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

func toUserResponse(p service.Profile) UserResponse {
	return UserResponse{
		ID:         p.User.ID,
		Username:   p.Username,
		Name:       p.User.Name,
		Email:      p.User.Email,
		Avatar:     p.User.Avatar,
		IsVerified: p.User.IsVerified,
		IsActive:   p.IsActive,
		AccountID:  p.User.AccountID,
		Role:       p.Role.Name,
		CreatedAt:  p.User.CreatedAt,
	}
}

// writeServiceError translates the service error taxonomy into the wire
// format. Anything unrecognised becomes a generic 500 so internals never
// leak.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var body ErrorResponse

	switch {
	case errors.Is(err, service.ErrAccountNotFound):
		status, body = http.StatusNotFound, ErrorResponse{"not_found", "Account not found"}
	case errors.Is(err, service.ErrUserNotFound):
		status, body = http.StatusNotFound, ErrorResponse{"not_found", "User not found"}
	case errors.Is(err, service.ErrRoleNotFound):
		status, body = http.StatusNotFound, ErrorResponse{"not_found", "Role not found"}
	case errors.Is(err, service.ErrIncorrectPassword):
		status, body = http.StatusUnauthorized, ErrorResponse{"invalid_credentials", "Incorrect password"}
	case errors.Is(err, service.ErrUserExists):
		status, body = http.StatusBadRequest, ErrorResponse{"conflict", "Username or email already exists"}
	case errors.Is(err, service.ErrRoleExists):
		status, body = http.StatusBadRequest, ErrorResponse{"conflict", "Role already exists"}
	case errors.Is(err, service.ErrRoleInUse):
		status, body = http.StatusBadRequest, ErrorResponse{"conflict", "Role is still assigned to users"}
	case errors.Is(err, service.ErrInvalidKey):
		status, body = http.StatusBadRequest, ErrorResponse{"invalid_key", "Invalid key"}
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		status, body = http.StatusInternalServerError, ErrorResponse{"server_error", "Internal server error"}
	}

	httpx.WriteJSON(w, status, body)
}

func writeBadRequest(w http.ResponseWriter, description string) {
	httpx.WriteJSON(w, http.StatusBadRequest, ErrorResponse{
		Error:            "invalid_request",
		ErrorDescription: description,
	})
}
