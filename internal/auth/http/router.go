package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/blob"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/domain"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/keystore"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/service"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/internal/auth/store"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/httpx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/jwtx"
	"github.com/kyawzin-thiha/permissions-based-authenticaion-api/pkg/slogx"
)

// Router wires handlers, the guard chain and rate limits into one
// http.Handler. Every route's authorization requirement is declared right
// where the route is registered; there is no runtime metadata lookup.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	tokens       *jwtx.TokenService
	cookieSecret []byte
	secureCookie bool
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	blobs blob.ObjectStore
	keys  keystore.KeyStore

	AuthService         *service.AuthService
	UserService         *service.UserService
	RolesService        *service.RolesService
	VerificationService *service.VerificationService
}

func NewRouter(
	tokens *jwtx.TokenService,
	cookieSecret []byte,
	secureCookie bool,
	buildVersion string,
	st store.Store,
	blobs blob.ObjectStore,
	keys keystore.KeyStore,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		tokens:       tokens,
		cookieSecret: cookieSecret,
		secureCookie: secureCookie,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		blobs:        blobs,
		keys:         keys,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerRoles()
	r.registerSystem()
}

// public wraps an open endpoint: no guards, IP rate limiting only.
func (r *Router) public(h http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.RateLimitByIP(limit),
	)
}

// secured wraps an endpoint with the guard chain: the authentication gate
// runs first and attaches the identity, the permission gate second. Rate
// limiting keys off the authenticated user.
func (r *Router) secured(h http.HandlerFunc, cfg httpx.GuardConfig, limit httpx.RateLimitConfig) http.Handler {
	return httpx.Chain(h,
		httpx.AuthnMiddleware(cfg, r.tokens, r.cookieSecret),
		httpx.AuthzMiddleware(cfg, r.RolesService.PermissionsForUser),
		httpx.RateLimitByUser(limit),
	)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{
		AuthService:         r.AuthService,
		VerificationService: r.VerificationService,
		UserService:         r.UserService,
		CookieSecret:        r.cookieSecret,
		SecureCookie:        r.secureCookie,
	}

	authed := httpx.GuardConfig{}
	admin := httpx.GuardConfig{Permissions: []string{domain.CapabilityAdmin}}

	// Credential endpoints get the strict profile to slow brute force.
	r.Mux.Handle("POST /auth/login", r.public(h.HandleLogin, httpx.StrictLimit))
	r.Mux.Handle("PUT /auth/verify-email", r.public(h.HandleVerifyEmail, httpx.StrictLimit))
	r.Mux.Handle("POST /auth/request-password-reset", r.public(h.HandleRequestPasswordReset, httpx.StrictLimit))
	r.Mux.Handle("PUT /auth/reset-password", r.public(h.HandleResetPassword, httpx.StrictLimit))

	r.Mux.Handle("POST /auth/logout", r.secured(h.HandleLogout, authed, httpx.LenientLimit))
	r.Mux.Handle("GET /auth/request-email-verification", r.secured(h.HandleRequestEmailVerification, authed, httpx.ModerateLimit))
	r.Mux.Handle("PUT /auth/update-password", r.secured(h.HandleUpdatePassword, authed, httpx.StrictLimit))
	r.Mux.Handle("DELETE /auth/account", r.secured(h.HandleDeleteAccount, authed, httpx.ModerateLimit))

	r.Mux.Handle("POST /auth/create-user", r.secured(h.HandleCreateUser, admin, httpx.ModerateLimit))
	r.Mux.Handle("PUT /auth/activate-account", r.secured(h.HandleActivateAccount, admin, httpx.ModerateLimit))
	r.Mux.Handle("PUT /auth/deactivate-account", r.secured(h.HandleDeactivateAccount, admin, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /auth/remove-user/{accountId}", r.secured(h.HandleRemoveUser, admin, httpx.ModerateLimit))
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	authed := httpx.GuardConfig{}
	admin := httpx.GuardConfig{Permissions: []string{domain.CapabilityAdmin}}

	r.Mux.Handle("GET /user/get-user", r.secured(h.HandleGetUser, authed, httpx.LenientLimit))
	r.Mux.Handle("PUT /user/update-avatar", r.secured(h.HandleUpdateAvatar, authed, httpx.ModerateLimit))

	r.Mux.Handle("GET /user/get-all-users", r.secured(h.HandleGetAllUsers, admin, httpx.ModerateLimit))
	r.Mux.Handle("PUT /user/update-name", r.secured(h.HandleUpdateName, admin, httpx.ModerateLimit))
	r.Mux.Handle("PUT /user/update-user-name", r.secured(h.HandleUpdateUserName, admin, httpx.ModerateLimit))
	r.Mux.Handle("PUT /user/update-email", r.secured(h.HandleUpdateEmail, admin, httpx.ModerateLimit))
	r.Mux.Handle("PUT /user/update-user-email", r.secured(h.HandleUpdateUserEmail, admin, httpx.ModerateLimit))
	r.Mux.Handle("PUT /user/update-role", r.secured(h.HandleUpdateRole, admin, httpx.ModerateLimit))
}

func (r *Router) registerRoles() {
	h := &RolesHandler{RolesService: r.RolesService}

	admin := httpx.GuardConfig{Permissions: []string{domain.CapabilityAdmin}}

	r.Mux.Handle("GET /role/get-all-roles", r.secured(h.HandleGetAll, admin, httpx.ModerateLimit))
	r.Mux.Handle("POST /role/create-role", r.secured(h.HandleCreate, admin, httpx.ModerateLimit))
	r.Mux.Handle("PUT /role/update-role", r.secured(h.HandleUpdate, admin, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /role/{id}", r.secured(h.HandleDelete, admin, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store, r.keys),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("GET /avatars/{file}",
		httpx.Chain(AvatarHandler(r.blobs),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
