package bootstrap

import "context"

// AuditLog is an operational event (startup, shutdown, seeding), not a
// business-level request audit.
type AuditLog struct {
	Action  string
	Message string
	Meta    map[string]any
}

type AuditLogger interface {
	Log(ctx context.Context, entry AuditLog)
}
