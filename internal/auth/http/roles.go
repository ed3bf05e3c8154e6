package http

import (
	"encoding/json"
	"net/http"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/service"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/httpx"
)

type RolesHandler struct {
	RolesService *service.RolesService
}

func (h *RolesHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	roles, err := h.RolesService.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	out := make([]RoleResponse, len(roles))
	for i, role := range roles {
		out[i] = toRoleResponse(role)
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *RolesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		writeBadRequest(w, "name is required")
		return
	}

	role, err := h.RolesService.CreateRole(r.Context(), req.Name, req.Description, domain.Permission{
		Read:   req.Permission.Read,
		Write:  req.Permission.Write,
		Delete: req.Permission.Delete,
		Admin:  req.Permission.Admin,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toRoleResponse(role))
}

func (h *RolesHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req RoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" || req.Name == "" {
		writeBadRequest(w, "id and name are required")
		return
	}

	role, err := h.RolesService.UpdateRole(r.Context(), req.ID, req.Name, req.Description, domain.Permission{
		Read:   req.Permission.Read,
		Write:  req.Permission.Write,
		Delete: req.Permission.Delete,
		Admin:  req.Permission.Admin,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toRoleResponse(role))
}

func (h *RolesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	roleID := r.PathValue("id")
	if roleID == "" {
		writeBadRequest(w, "id is required")
		return
	}

	if err := h.RolesService.DeleteRole(r.Context(), roleID); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, StatusResponse{Status: "deleted"})
}
