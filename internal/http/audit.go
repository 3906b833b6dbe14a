package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookexchange/internal/audit"
	"github.com/mrlokans/bookexchange/internal/entities"
	"github.com/mrlokans/bookexchange/internal/services"
)

const (
	defaultAuditLimit = 25
	maxAuditLimit     = 100
)

type AuditController struct {
	auditService *audit.Service
}

func NewAuditController(auditService *audit.Service) *AuditController {
	return &AuditController{
		auditService: auditService,
	}
}

// GetAuditEvents returns the caller's own audit events as JSON.
// GET /api/audit?limit=&offset=&type=
func (ac *AuditController) GetAuditEvents(c *gin.Context) {
	id := identityFrom(c)
	if !id.IsAuthenticated() {
		respondServiceError(c, services.ErrUnauthenticated, "audit events")
		return
	}

	limit := queryInt(c, "limit", defaultAuditLimit)
	if limit < 1 || limit > maxAuditLimit {
		limit = defaultAuditLimit
	}
	offset := queryInt(c, "offset", 0)
	eventType := entities.AuditEventType(c.Query("type"))

	events, total, err := ac.auditService.GetEvents(c.Request.Context(), id.UserID, eventType, limit, offset)
	if err != nil {
		respondInternalError(c, err, "audit events")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"events":       events,
		"limit":        limit,
		"offset":       offset,
		"total_events": total,
		"has_more":     int64(offset+len(events)) < total,
	})
}
