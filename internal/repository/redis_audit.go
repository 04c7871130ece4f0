package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/model"
)

// RedisAuditRepo keeps the most recent audit records in a capped Redis list.
type RedisAuditRepo struct {
	client  *RedisClient
	listKey string
	listMax int64
}

func NewRedisAuditRepo(client *RedisClient, listKey string, listMax int64) *RedisAuditRepo {
	if listKey == "" {
		listKey = "audit_logs"
	}
	if listMax <= 0 {
		listMax = 10000
	}
	return &RedisAuditRepo{
		client:  client,
		listKey: listKey,
		listMax: listMax,
	}
}

func (r *RedisAuditRepo) Insert(ctx context.Context, entry *model.AuditLog) error {
	if entry == nil {
		return nil
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	pipe := r.client.Client.TxPipeline()
	pipe.LPush(ctx, r.listKey, payload)
	pipe.LTrim(ctx, r.listKey, 0, r.listMax-1)
	_, err = pipe.Exec(ctx)
	return err
}

// List scans the newest records and filters them by path and time window.
func (r *RedisAuditRepo) List(ctx context.Context, path string, limit int, from, to *time.Time) ([]*model.AuditLog, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}
	fetch := int64(limit) * 5
	if fetch < 100 {
		fetch = 100
	}
	if fetch > r.listMax {
		fetch = r.listMax
	}
	raw, err := r.client.Client.LRange(ctx, r.listKey, 0, fetch-1).Result()
	if err != nil {
		return nil, err
	}
	out := make([]*model.AuditLog, 0, limit)
	for _, item := range raw {
		var entry model.AuditLog
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue
		}
		if !auditMatches(&entry, path, from, to) {
			continue
		}
		out = append(out, &entry)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

func auditMatches(e *model.AuditLog, path string, from, to *time.Time) bool {
	if path != "" && e.Path != path {
		return false
	}
	if from != nil && e.CreatedAt.Before(*from) {
		return false
	}
	if to != nil && e.CreatedAt.After(*to) {
		return false
	}
	return true
}
