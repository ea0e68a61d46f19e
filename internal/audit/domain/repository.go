package domain

import (
	"context"

	"gorm.io/gorm"
)

// Repository is insert-only by design.
type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, event *AuditEvent) error
	List(ctx context.Context, db *gorm.DB, filter ListFilter) ([]*AuditEvent, error)
}
