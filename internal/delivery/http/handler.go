package http

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/retailpulse/console/internal/domain"
	"github.com/retailpulse/console/internal/usecase"
	"go.uber.org/zap"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	dashboard  *usecase.DashboardService
	scopes     *usecase.ScopeController
	gateway    *usecase.DisclosureGateway
	sessions   domain.AuthStateStore
	cookieName string
	log        *zap.SugaredLogger
}

// NewHandler creates the HTTP handler set.
func NewHandler(
	dashboard *usecase.DashboardService,
	scopes *usecase.ScopeController,
	gateway *usecase.DisclosureGateway,
	sessions domain.AuthStateStore,
	cookieName string,
	log *zap.SugaredLogger,
) *Handler {
	return &Handler{
		dashboard:  dashboard,
		scopes:     scopes,
		gateway:    gateway,
		sessions:   sessions,
		cookieName: cookieName,
		log:        log,
	}
}

// HealthCheck returns the health status of the API.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "retailpulse-console",
		"version": "1.0.0",
	})
}

// DashboardStats serves the cached aggregate entry for the active scope.
func (h *Handler) DashboardStats(c *gin.Context) {
	c.JSON(http.StatusOK, entryResponse(h.dashboard.Stats()))
}

// RefreshDashboard invalidates the active scope's stats and refetches.
func (h *Handler) RefreshDashboard(c *gin.Context) {
	c.JSON(http.StatusAccepted, entryResponse(h.dashboard.RefreshStats()))
}

// GetScope returns the active scope and its epoch.
func (h *Handler) GetScope(c *gin.Context) {
	change := h.scopes.Current()
	c.JSON(http.StatusOK, gin.H{"scope": change.Scope, "epoch": change.Epoch})
}

type switchScopeRequest struct {
	Kind       string `json:"kind" binding:"required"`
	LocationID string `json:"locationId"`
}

// SwitchScope transitions the active scope.
func (h *Handler) SwitchScope(c *gin.Context) {
	var req switchScopeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind is required"})
		return
	}

	switch domain.ScopeKind(req.Kind) {
	case domain.ScopeNetwork:
		change := h.scopes.SwitchToNetwork()
		c.JSON(http.StatusOK, gin.H{"scope": change.Scope, "epoch": change.Epoch})
	case domain.ScopeLocation:
		change, err := h.scopes.SwitchToLocation(req.LocationID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"scope": change.Scope, "epoch": change.Epoch})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be 'network' or 'location'"})
	}
}

// LocationDetail serves the cached detail entry for one location.
func (h *Handler) LocationDetail(c *gin.Context) {
	entry, err := h.dashboard.LocationDetail(c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidScope) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, entryResponse(entry))
}

// LocationStats serves the cached ranged stats entry for one location.
func (h *Handler) LocationStats(c *gin.Context) {
	statsRange, err := domain.ParseStatsRange(c.DefaultQuery("range", string(domain.RangeToday)))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.dashboard.LocationStats(c.Param("id"), statsRange)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidScope) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, entryResponse(entry))
}

// PublicProduct serves the anonymous product surface. Authenticated callers
// are redirected to the internal search; everyone else gets the minimized
// projection or a 404.
func (h *Handler) PublicProduct(c *gin.Context) {
	auth, err := h.sessions.State(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		// Unreadable session state never escalates; the caller proceeds
		// as anonymous.
		h.log.Debugw("session state unavailable, treating as anonymous", "error", err)
		auth = domain.AuthState{}
	}

	resolution := h.gateway.Resolve(c.Request.Context(), c.Param("key"), auth)
	switch resolution.Kind {
	case usecase.ResolutionRedirect:
		c.Redirect(http.StatusFound, resolution.RedirectPath)
	case usecase.ResolutionView:
		c.JSON(http.StatusOK, resolution.View)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
	}
}

func (h *Handler) sessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(h.cookieName); err == nil && cookie != "" {
		return cookie
	}
	authz := c.GetHeader("Authorization")
	if strings.HasPrefix(authz, "Bearer ") {
		return strings.TrimPrefix(authz, "Bearer ")
	}
	return ""
}

// entryResponse shapes a cache entry for the rendering layer.
func entryResponse(entry usecase.Entry) gin.H {
	resp := gin.H{
		"status": entry.Status,
		"data":   entry.Value,
	}
	if !entry.FetchedAt.IsZero() {
		resp["fetchedAt"] = entry.FetchedAt.UTC().Format(time.RFC3339)
	}
	if entry.Err != nil {
		resp["error"] = entry.Err.Error()
	}
	return resp
}
