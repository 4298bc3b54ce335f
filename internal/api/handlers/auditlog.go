package handlers

import (
	"log/slog"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/mertdogan/fleettrack/internal/audit"
)

// clientIP strips the port RemoteAddr carries so the address parses as
// a bare IP downstream.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// logAudit records a mutation on the audit trail. Failures are logged
// and never surface to the client.
func logAudit(r *http.Request, svc *audit.Service, actor uuid.UUID, action, resourceType string, resourceID int64, details map[string]interface{}) {
	if svc == nil {
		return
	}
	entry := audit.Entry{
		Actor:        &actor,
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   &resourceID,
		Details:      details,
		IPAddress:    clientIP(r),
	}
	if err := svc.Log(r.Context(), entry); err != nil {
		slog.Warn("audit log write failed", "action", action, "error", err)
	}
}
