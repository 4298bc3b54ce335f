// Package audit records who did what to which row. Mutating handlers
// write an entry after every successful upsert, delete, or admin action.
package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/models"
	"github.com/mertdogan/fleettrack/internal/store"
)

type Service struct {
	store store.AuditStore
}

func NewService(st store.AuditStore) *Service {
	return &Service{store: st}
}

type Entry struct {
	Actor        *uuid.UUID
	Action       string
	ResourceType string
	ResourceID   *int64
	Details      map[string]interface{}
	IPAddress    string
}

func (s *Service) Log(ctx context.Context, entry Entry) error {
	details, _ := json.Marshal(entry.Details)

	var ip *netip.Addr
	if entry.IPAddress != "" {
		parsed, err := netip.ParseAddr(entry.IPAddress)
		if err == nil {
			ip = &parsed
		}
	}

	err := s.store.InsertAuditLog(ctx, models.AuditLog{
		ActorID:      entry.Actor,
		Action:       entry.Action,
		ResourceType: entry.ResourceType,
		ResourceID:   entry.ResourceID,
		Details:      details,
		IPAddress:    ip,
	})
	if err != nil {
		return fmt.Errorf("record audit entry: %w", err)
	}
	return nil
}

func (s *Service) List(ctx context.Context, q store.AuditQuery) ([]models.AuditLog, error) {
	return s.store.ListAuditLogs(ctx, q)
}
