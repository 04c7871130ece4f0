package model

import (
	"time"
)

// AuditLog is one request's audit record. Recommendation payloads are never
// captured, only who asked and which source answered.
type AuditLog struct {
	ID         string `json:"id" gorm:"primaryKey;type:text"`
	Method     string `json:"method" gorm:"type:text"`
	Path       string `json:"path" gorm:"type:text;index:idx_audit_logs_path"`
	IP         string `json:"ip" gorm:"type:text"`
	UserAgent  string `json:"user_agent" gorm:"type:text"`
	StatusCode int    `json:"status_code"`
	LatencyMs  int64  `json:"latency_ms"`

	// Filled by handlers through middleware.AddAuditContext.
	Wallet   string `json:"wallet,omitempty" gorm:"type:text"`
	AISource string `json:"ai_source,omitempty" gorm:"type:text"`
	Error    string `json:"error,omitempty" gorm:"type:text"`

	CreatedAt time.Time `json:"created_at" gorm:"index:idx_audit_logs_path"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
