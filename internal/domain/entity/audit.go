package entity

import "time"

// AuditEntry registro de auditoría de cambios sobre una tabla.
type AuditEntry struct {
	ID        int64
	Table     string
	RecordID  string
	Action    string // INSERT, UPDATE, DELETE
	OldValue  map[string]interface{}
	NewValue  map[string]interface{}
	UserID    string
	CreatedAt time.Time
}
