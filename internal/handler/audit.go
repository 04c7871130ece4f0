package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
	"github.com/GoPolymarket/yieldgate/internal/service"
	"github.com/gin-gonic/gin"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 1000
)

type AuditHandler struct {
	svc *service.AuditService
}

func NewAuditHandler(svc *service.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

// List serves GET /api/ai/audit?path=&limit=&from=&to=, newest first.
func (h *AuditHandler) List(c *gin.Context) {
	limit, err := auditLimit(c.Query("limit"))
	if err != nil {
		_ = c.Error(apperrors.NewInvalidRequest(err.Error()))
		return
	}
	from, err := optionalTime(c.Query("from"))
	if err != nil {
		_ = c.Error(apperrors.NewInvalidRequest("from: " + err.Error()))
		return
	}
	to, err := optionalTime(c.Query("to"))
	if err != nil {
		_ = c.Error(apperrors.NewInvalidRequest("to: " + err.Error()))
		return
	}

	records, err := h.svc.List(c.Request.Context(), c.Query("path"), limit, from, to)
	if err != nil {
		_ = c.Error(apperrors.New(apperrors.ErrInternal, "audit query failed", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "records": records})
}

func auditLimit(raw string) (int, error) {
	if raw == "" {
		return defaultAuditLimit, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("limit must be a positive integer, got %q", raw)
	}
	return min(n, maxAuditLimit), nil
}

// optionalTime accepts RFC3339 or unix seconds. Empty means unbounded.
func optionalTime(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		t := time.Unix(unix, 0).UTC()
		return &t, nil
	}
	return nil, fmt.Errorf("invalid time %q", raw)
}
