package service

import (
	"context"
	"sync"
	"time"

	"github.com/GoPolymarket/yieldgate/internal/model"
	"github.com/GoPolymarket/yieldgate/internal/pkg/logger"
)

type AuditRepo interface {
	Insert(ctx context.Context, entry *model.AuditLog) error
}

// AuditLister is implemented by repos that can query stored records.
type AuditLister interface {
	List(ctx context.Context, path string, limit int, from, to *time.Time) ([]*model.AuditLog, error)
}

// AuditService persists audit records off the request path. Without a repo
// records are written to the structured log only.
type AuditService struct {
	logChan chan *model.AuditLog
	buffer  *auditBuffer
	repo    AuditRepo
	done    chan struct{}
	once    sync.Once
}

func NewAuditService(repo AuditRepo) *AuditService {
	svc := &AuditService{
		logChan: make(chan *model.AuditLog, 1000),
		buffer:  newAuditBuffer(1000),
		repo:    repo,
		done:    make(chan struct{}),
	}
	go svc.processLogs()
	return svc
}

func (s *AuditService) Log(entry *model.AuditLog) {
	if entry == nil {
		return
	}
	s.buffer.Add(entry)
	select {
	case s.logChan <- entry:
	default:
		// Full buffer: drop rather than block the request.
		logger.Warn("audit log buffer full, dropping entry", "request_id", entry.ID)
	}
}

// Recent returns up to limit records from process memory, newest first.
func (s *AuditService) Recent(limit int) []*model.AuditLog {
	return s.buffer.List("", limit, nil, nil)
}

// List queries the repo when it supports reads and falls back to the
// in-memory buffer otherwise or on error.
func (s *AuditService) List(ctx context.Context, path string, limit int, from, to *time.Time) ([]*model.AuditLog, error) {
	if lister, ok := s.repo.(AuditLister); ok {
		records, err := lister.List(ctx, path, limit, from, to)
		if err == nil {
			return records, nil
		}
		logger.Warn("audit repo list failed, serving buffer", "error", err)
	}
	return s.buffer.List(path, limit, from, to), nil
}

func (s *AuditService) processLogs() {
	defer close(s.done)
	for entry := range s.logChan {
		if s.repo == nil {
			logger.Info("audit",
				"request_id", entry.ID,
				"method", entry.Method,
				"path", entry.Path,
				"status", entry.StatusCode,
				"latency_ms", entry.LatencyMs,
				"ip", entry.IP,
				"wallet", entry.Wallet,
				"ai_source", entry.AISource,
			)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := s.repo.Insert(ctx, entry); err != nil {
			logger.Error("failed to write audit log to DB", "request_id", entry.ID, "error", err)
		}
		cancel()
	}
}

// Close drains pending records and stops the worker.
func (s *AuditService) Close() {
	s.once.Do(func() {
		close(s.logChan)
		<-s.done
	})
}

type auditBuffer struct {
	mu        sync.Mutex
	maxSize   int
	records   []*model.AuditLog
	nextIndex int
}

func newAuditBuffer(maxSize int) *auditBuffer {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &auditBuffer{
		maxSize: maxSize,
		records: make([]*model.AuditLog, 0, maxSize),
	}
}

func (b *auditBuffer) Add(entry *model.AuditLog) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.records) < b.maxSize {
		b.records = append(b.records, entry)
		return
	}
	b.records[b.nextIndex] = entry
	b.nextIndex = (b.nextIndex + 1) % b.maxSize
}

func (b *auditBuffer) List(path string, limit int, from, to *time.Time) []*model.AuditLog {
	b.mu.Lock()
	defer b.mu.Unlock()
	if limit <= 0 || limit > b.maxSize {
		limit = b.maxSize
	}
	total := len(b.records)
	results := make([]*model.AuditLog, 0, min(limit, total))
	for i := 0; i < total && len(results) < limit; i++ {
		idx := (b.nextIndex + total - 1 - i) % total
		entry := b.records[idx]
		if path != "" && entry.Path != path {
			continue
		}
		if from != nil && entry.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && entry.CreatedAt.After(*to) {
			continue
		}
		results = append(results, entry)
	}
	return results
}
