package shared

import "context"

// Transactor runs a function inside a single storage transaction.
// The opaque txProvider handed to fn is the open transaction handle
// (a *gorm.DB for the GORM implementation), suitable for the
// repositories' InTx methods. An error from fn rolls the whole
// transaction back.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(txProvider interface{}) error) error
}
