package middleware

import (
	"time"

	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ContextAuditLog  = "audit_log"
	ContextRequestID = "request_id"
)

// AuditMiddleware records one audit entry per request. Bodies are never
// captured; handlers attach what matters through AddAuditContext.
func AuditMiddleware(auditSvc *service.AuditService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader("X-Request-ID")
		if _, err := uuid.Parse(reqID); err != nil {
			reqID = uuid.New().String()
		}
		c.Header("X-Request-ID", reqID)
		c.Set(ContextRequestID, reqID)

		auditEntry := &model.AuditLog{
			ID:        reqID,
			Method:    c.Request.Method,
			Path:      c.Request.URL.Path,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			CreatedAt: start.UTC(),
		}
		c.Set(ContextAuditLog, auditEntry)

		c.Next()

		auditEntry.StatusCode = c.Writer.Status()
		auditEntry.LatencyMs = time.Since(start).Milliseconds()

		auditSvc.Log(auditEntry)
	}
}

// AddAuditContext lets handlers annotate the current request's audit entry.
// Known keys: wallet, ai_source, error. Others are ignored.
func AddAuditContext(c *gin.Context, key string, value string) {
	val, exists := c.Get(ContextAuditLog)
	if !exists {
		return
	}
	entry, ok := val.(*model.AuditLog)
	if !ok {
		return
	}
	switch key {
	case "wallet":
		entry.Wallet = value
	case "ai_source":
		entry.AISource = value
	case "error":
		entry.Error = value
	}
}
