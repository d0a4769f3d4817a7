package persistence

import (
	"context"

	"gorm.io/gorm"

	"github.com/crmcore/backend/internal/domain/shared"
)

// GormTransactor implements shared.Transactor on a gorm connection
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a new GormTransactor
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// InTransaction runs fn inside a single gorm transaction, passing the
// open *gorm.DB handle through as the txProvider
func (t *GormTransactor) InTransaction(ctx context.Context, fn func(txProvider interface{}) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx)
	})
}

// Ensure GormTransactor implements Transactor
var _ shared.Transactor = (*GormTransactor)(nil)
