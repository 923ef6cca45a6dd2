package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/creditcore/backend/internal/domain/shared"
	"github.com/creditcore/backend/internal/domain/verification"
	"github.com/creditcore/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSalaryCertificateRepository implements verification.Repository using GORM
type GormSalaryCertificateRepository struct {
	db *gorm.DB
}

// NewGormSalaryCertificateRepository creates a new GormSalaryCertificateRepository
func NewGormSalaryCertificateRepository(db *gorm.DB) *GormSalaryCertificateRepository {
	return &GormSalaryCertificateRepository{db: db}
}

// FindByID finds a certificate by its ID
func (r *GormSalaryCertificateRepository) FindByID(ctx context.Context, id uuid.UUID) (*verification.SalaryCertificate, error) {
	var model models.SalaryCertificateModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindLatestByNationalID finds the most recent certificate for a national ID
func (r *GormSalaryCertificateRepository) FindLatestByNationalID(ctx context.Context, nationalID string) (*verification.SalaryCertificate, error) {
	var model models.SalaryCertificateModel
	if err := r.db.WithContext(ctx).
		Where("national_id = ?", nationalID).
		Order("created_at DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds all certificates matching the filter
func (r *GormSalaryCertificateRepository) FindAll(ctx context.Context, filter shared.Filter) ([]verification.SalaryCertificate, error) {
	var certModels []models.SalaryCertificateModel
	query := r.db.WithContext(ctx).Model(&models.SalaryCertificateModel{})

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR employer_name ILIKE ?", searchPattern, searchPattern)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
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

	if err := query.Find(&certModels).Error; err != nil {
		return nil, err
	}

	certificates := make([]verification.SalaryCertificate, len(certModels))
	for i := range certModels {
		certificates[i] = *certModels[i].ToDomain()
	}
	return certificates, nil
}

// Save persists a certificate
func (r *GormSalaryCertificateRepository) Save(ctx context.Context, certificate *verification.SalaryCertificate) error {
	model := models.SalaryCertificateModelFromDomain(certificate)
	return r.db.WithContext(ctx).Save(model).Error
}

// Count counts certificates matching the filter
func (r *GormSalaryCertificateRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.SalaryCertificateModel{})
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("full_name ILIKE ? OR employer_name ILIKE ?", searchPattern, searchPattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
