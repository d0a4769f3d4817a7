package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/crmcore/backend/internal/domain/customer"
	"github.com/crmcore/backend/internal/domain/shared"
	"github.com/crmcore/backend/internal/infrastructure/persistence/models"
)

// GormCustomerRepository implements CustomerRepository using GORM.
// When an OutboxEventSaver is attached, every write drains the aggregate's
// pending events into the outbox inside the same transaction.
type GormCustomerRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// SetOutboxEventSaver sets the outbox event saver for transactional event publishing
func (r *GormCustomerRepository) SetOutboxEventSaver(saver shared.OutboxEventSaver) {
	r.outboxSaver = saver
}

// FindByID finds a customer by its ID
func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindByEmail finds a customer by email address
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("lower(email) = lower(?)", email).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain()
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*customer.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}

	customers := make([]*customer.Customer, 0, len(customerModels))
	for i := range customerModels {
		c, err := customerModels[i].ToDomain()
		if err != nil {
			return nil, err
		}
		customers = append(customers, c)
	}
	return customers, nil
}

// Count counts customers matching the same filters as FindAll
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new customer and saves its events to the outbox
func (r *GormCustomerRepository) Create(ctx context.Context, c *customer.Customer) error {
	events := c.PullDomainEvents()
	model := models.CustomerModelFromDomain(c)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.CustomerModel{}).
			Where("lower(email) = lower(?)", model.Email).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return shared.ErrAlreadyExists
		}

		if err := tx.Create(model).Error; err != nil {
			return err
		}

		return r.saveEvents(ctx, tx, events)
	})
}

// Save updates a customer without a version check
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	events := c.PullDomainEvents()
	model := models.CustomerModelFromDomain(c)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(model).Error; err != nil {
			return err
		}
		return r.saveEvents(ctx, tx, events)
	})
}

// SaveWithLock updates a customer with optimistic locking.
// The update only lands when the stored version is exactly one behind the
// aggregate's; otherwise ErrConcurrencyConflict is returned.
func (r *GormCustomerRepository) SaveWithLock(ctx context.Context, c *customer.Customer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return r.SaveWithLockInTx(ctx, tx, c)
	})
}

// SaveWithLockInTx performs the optimistic-locking update inside an
// existing gorm transaction, draining the aggregate's events into the
// outbox on the same handle.
func (r *GormCustomerRepository) SaveWithLockInTx(ctx context.Context, txProvider interface{}, c *customer.Customer) error {
	tx, ok := txProvider.(*gorm.DB)
	if !ok {
		return fmt.Errorf("expected *gorm.DB transaction, got %T", txProvider)
	}

	events := c.PullDomainEvents()
	model := models.CustomerModelFromDomain(c)

	result := tx.WithContext(ctx).Model(&models.CustomerModel{}).
		Where("id = ? AND version = ?", c.ID, c.Version-1).
		Updates(map[string]interface{}{
			"first_name":   model.FirstName,
			"last_name":    model.LastName,
			"email":        model.Email,
			"phone":        model.Phone,
			"credit_cents": model.CreditCents,
			"version":      model.Version,
			"updated_at":   model.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	return r.saveEvents(ctx, tx, events)
}

// Delete removes the customer row and saves its pending events to the outbox
func (r *GormCustomerRepository) Delete(ctx context.Context, c *customer.Customer) error {
	events := c.PullDomainEvents()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.CustomerModel{}, "id = ?", c.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		return r.saveEvents(ctx, tx, events)
	})
}

// ExistsByEmail checks if a customer with the given email exists
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("lower(email) = lower(?)", email).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormCustomerRepository) saveEvents(ctx context.Context, tx *gorm.DB, events []shared.DomainEvent) error {
	if r.outboxSaver == nil || len(events) == 0 {
		return nil
	}
	if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
		return fmt.Errorf("failed to save events to outbox: %w", err)
	}
	return nil
}

// applyFilter applies filter options to the query
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}

	column := ValidateSortField(filter.OrderBy, CustomerSortFields, "created_at")
	return query.Order(column + " " + ValidateSortOrder(filter.OrderDir))
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where(
			"first_name LIKE ? OR last_name LIKE ? OR email LIKE ? OR phone LIKE ?",
			searchPattern, searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "first_name":
			query = query.Where("first_name = ?", value)
		case "last_name":
			query = query.Where("last_name = ?", value)
		case "email":
			query = query.Where("lower(email) = lower(?)", value)
		case "phone":
			query = query.Where("phone = ?", value)
		case "has_credit":
			if value == true {
				query = query.Where("credit_cents >= 0")
			} else {
				query = query.Where("credit_cents < 0")
			}
		}
	}

	return query
}

// Ensure GormCustomerRepository implements CustomerRepository
var _ customer.CustomerRepository = (*GormCustomerRepository)(nil)
