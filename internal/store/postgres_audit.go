package store

import (
	"context"
	"fmt"

	"github.com/mertdogan/fleettrack/internal/models"
)

func (s *Postgres) InsertAuditLog(ctx context.Context, l models.AuditLog) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO audit_logs (actor_id, action, resource_type, resource_id, details, ip_address)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ActorID, l.Action, l.ResourceType, l.ResourceID, l.Details, l.IPAddress)
	if err != nil {
		return fmt.Errorf("insert audit log: %w", classify(err))
	}
	return nil
}

func (s *Postgres) ListAuditLogs(ctx context.Context, q AuditQuery) ([]models.AuditLog, error) {
	if q.Limit <= 0 {
		q.Limit = 50
	}

	query := `SELECT id, actor_id, action, resource_type, resource_id, details, ip_address, created_at
			  FROM audit_logs WHERE TRUE`
	args := []any{}
	argIdx := 1

	if q.Action != "" {
		query += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, q.Action)
		argIdx++
	}
	if q.StartDate != nil {
		query += fmt.Sprintf(" AND created_at >= $%d", argIdx)
		args = append(args, *q.StartDate)
		argIdx++
	}
	if q.EndDate != nil {
		query += fmt.Sprintf(" AND created_at <= $%d", argIdx)
		args = append(args, *q.EndDate)
		argIdx++
	}

	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, q.Limit, q.Offset)

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit logs: %w", classify(err))
	}
	defer rows.Close()

	var logs []models.AuditLog
	for rows.Next() {
		var l models.AuditLog
		if err := rows.Scan(&l.ID, &l.ActorID, &l.Action, &l.ResourceType, &l.ResourceID, &l.Details, &l.IPAddress, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", classify(err))
		}
		logs = append(logs, l)
	}
	return logs, classify(rows.Err())
}
