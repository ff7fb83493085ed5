// Package http is the transport layer. Handlers decode and validate the
// wire shapes, call into services, and translate service errors to status
// codes; nothing here makes a business decision.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cobrexhq/cobrex/internal/domain"
	"github.com/cobrexhq/cobrex/internal/metrics"
	"github.com/cobrexhq/cobrex/internal/service"
	"github.com/cobrexhq/cobrex/internal/store"
	"github.com/cobrexhq/cobrex/pkg/httpx"
	"github.com/cobrexhq/cobrex/pkg/jwtx"
	"github.com/cobrexhq/cobrex/pkg/slogx"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store

	AuthService     *service.AuthService
	UserService     *service.UserService
	AuditService    *service.AuditService
	CustomerService *service.CustomerService
	BillingService  *service.BillingService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		metrics.HTTPMiddleware,
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerUsers()
	r.registerAudit()
	r.registerCustomers()
	r.registerBillings()
	r.registerSystem()
}

// ServeHTTP implements http.Handler and applies the global middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential exchange: strict limit by IP to slow brute forcing.
	r.Mux.Handle("POST /api/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	// Token verification is pure computation, safe at a higher rate.
	r.Mux.Handle("POST /api/verify-token",
		httpx.Chain(http.HandlerFunc(h.HandleVerifyToken),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)

	r.Mux.Handle("POST /api/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerUsers() {
	h := &UsersHandler{UserService: r.UserService}

	reads := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			RequireCapability(domain.CapManageUsers),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}
	writes := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			RequireCapability(domain.CapManageUsers),
			httpx.RateLimitByUser(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /api/users", reads(h.HandleList))
	r.Mux.Handle("POST /api/users", writes(h.HandleCreate))
	r.Mux.Handle("GET /api/users/{id}", reads(h.HandleGet))
	r.Mux.Handle("PATCH /api/users/{id}", writes(h.HandleUpdate))
	r.Mux.Handle("DELETE /api/users/{id}", writes(h.HandleDelete))
	r.Mux.Handle("PATCH /api/users/{id}/toggle-active", writes(h.HandleToggleActive))
}

func (r *Router) registerAudit() {
	h := &AuditHandler{AuditService: r.AuditService}

	secured := func(handler http.HandlerFunc) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			RequireCapability(domain.CapViewAudit),
			httpx.RateLimitByUser(httpx.LenientLimit),
		)
	}

	r.Mux.Handle("GET /api/audit", secured(h.HandleList))
	r.Mux.Handle("GET /api/audit/search", secured(h.HandleSearch))
}

func (r *Router) registerCustomers() {
	h := &CustomersHandler{CustomerService: r.CustomerService, BillingService: r.BillingService}

	secured := func(handler http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			RequireCapability(domain.CapManageCustomers),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("GET /api/customers", secured(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("POST /api/customers", secured(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("GET /api/customers/{id}", secured(h.HandleGet, httpx.LenientLimit))
	r.Mux.Handle("PATCH /api/customers/{id}", secured(h.HandleUpdate, httpx.ModerateLimit))
	r.Mux.Handle("DELETE /api/customers/{id}", secured(h.HandleDelete, httpx.ModerateLimit))
	r.Mux.Handle("GET /api/customers/{id}/billings", secured(h.HandleBillings, httpx.LenientLimit))
}

func (r *Router) registerBillings() {
	h := &BillingsHandler{BillingService: r.BillingService}

	secured := func(handler http.HandlerFunc, capability domain.Capability, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(handler,
			httpx.AuthnMiddleware(r.verifier),
			RequireCapability(capability),
			httpx.RateLimitByUser(limit),
		)
	}

	r.Mux.Handle("GET /api/billings", secured(h.HandleList, domain.CapManageBillings, httpx.LenientLimit))
	r.Mux.Handle("POST /api/billings", secured(h.HandleCreate, domain.CapManageBillings, httpx.ModerateLimit))
	r.Mux.Handle("GET /api/billings/{id}", secured(h.HandleGet, domain.CapManageBillings, httpx.LenientLimit))
	r.Mux.Handle("POST /api/billings/{id}/pay", secured(h.HandlePay, domain.CapManageBillings, httpx.ModerateLimit))
	r.Mux.Handle("POST /api/billings/{id}/remind", secured(h.HandleRemind, domain.CapManageBillings, httpx.ModerateLimit))
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /metrics", promhttp.Handler())
}
