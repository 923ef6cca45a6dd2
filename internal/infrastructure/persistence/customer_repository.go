package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/creditcore/backend/internal/domain/customer"
	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/creditcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCustomerRepository implements customer.Repository using GORM
type GormCustomerRepository struct {
	db          *gorm.DB
	outboxSaver shared.OutboxEventSaver // optional, for transactional outbox pattern
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
	return model.ToDomain(), nil
}

// FindByEmail finds a customer by email
func (r *GormCustomerRepository) FindByEmail(ctx context.Context, email string) (*customer.Customer, error) {
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]customer.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(customerModels), nil
}

// FindWithCriteria finds customers matching the given search criteria.
// Absent criteria do not constrain the result set; all present criteria
// are AND-combined.
func (r *GormCustomerRepository) FindWithCriteria(ctx context.Context, criteria customer.FilterCriteria, filter shared.Filter) ([]customer.Customer, error) {
	var customerModels []models.CustomerModel
	query := r.db.WithContext(ctx).Model(&models.CustomerModel{})
	query = applyCriteria(query, criteria)
	query = r.applyFilter(query, filter)

	if err := query.Find(&customerModels).Error; err != nil {
		return nil, err
	}

	return toDomainSlice(customerModels), nil
}

// Save creates or updates a customer and stores its pending domain events
// in the outbox within the same transaction
func (r *GormCustomerRepository) Save(ctx context.Context, c *customer.Customer) error {
	events := c.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		model := models.CustomerModelFromDomain(c)
		if err := tx.Save(model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.NewDomainError("ALREADY_EXISTS", "Customer with this email already exists")
			}
			return err
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	c.ClearDomainEvents()
	return nil
}

// Delete removes a customer and stores its pending domain events in the
// outbox within the same transaction
func (r *GormCustomerRepository) Delete(ctx context.Context, c *customer.Customer) error {
	events := c.GetDomainEvents()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.CustomerModel{}, "id = ?", c.ID)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}

		if r.outboxSaver != nil && len(events) > 0 {
			if err := r.outboxSaver.SaveEvents(ctx, tx, events...); err != nil {
				return fmt.Errorf("failed to save events to outbox: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return err
	}

	c.ClearDomainEvents()
	return nil
}

// Count counts customers matching the filter
func (r *GormCustomerRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.CustomerModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountWithCriteria counts customers matching the given search criteria
func (r *GormCustomerRepository) CountWithCriteria(ctx context.Context, criteria customer.FilterCriteria) (int64, error) {
	var count int64
	query := applyCriteria(r.db.WithContext(ctx).Model(&models.CustomerModel{}), criteria)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByEmail checks if a customer with the given email exists
func (r *GormCustomerRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Where("email = ?", strings.ToLower(email)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// applyCriteria translates domain search criteria into query conditions
func applyCriteria(query *gorm.DB, criteria customer.FilterCriteria) *gorm.DB {
	if criteria.FirstNameContains != nil {
		query = query.Where("first_name ILIKE ?", "%"+*criteria.FirstNameContains+"%")
	}
	if criteria.LastNameContains != nil {
		query = query.Where("last_name ILIKE ?", "%"+*criteria.LastNameContains+"%")
	}
	if criteria.MinCreditScore != nil {
		query = query.Where("credit_score >= ?", *criteria.MinCreditScore)
	}
	if criteria.MaxCreditScore != nil {
		query = query.Where("credit_score <= ?", *criteria.MaxCreditScore)
	}
	if criteria.MinSalary != nil {
		query = query.Where("annual_salary >= ?", *criteria.MinSalary)
	}
	if criteria.MaxSalary != nil {
		query = query.Where("annual_salary <= ?", *criteria.MaxSalary)
	}
	return query
}

// applyFilter applies pagination and ordering on top of the base filter
func (r *GormCustomerRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormCustomerRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("first_name ILIKE ? OR last_name ILIKE ? OR email ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	return query
}

func toDomainSlice(customerModels []models.CustomerModel) []customer.Customer {
	customers := make([]customer.Customer, len(customerModels))
	for i := range customerModels {
		customers[i] = *customerModels[i].ToDomain()
	}
	return customers
}
