package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

type SupplierService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewSupplierService(db *gorm.DB, validator *infrastructures.Validator) *SupplierService {
	return &SupplierService{
		db:        db,
		validator: validator,
	}
}

func (s *SupplierService) CreateSupplier(req *models.SupplierCreateRequest) (*models.Supplier, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	supplier := &models.Supplier{
		Code:         req.Code,
		Name:         req.Name,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		Address:      req.Address,
		Active:       true,
	}

	if err := s.db.Create(supplier).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.NewConstraintViolationError("Supplier code already exists")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create supplier")
	}

	return supplier, nil
}

func (s *SupplierService) GetSupplier(supplierID string) (*models.Supplier, error) {
	supplierUUID, err := uuid.Parse(supplierID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid supplier ID format")
	}

	var supplier models.Supplier
	if err := s.db.Where("id = ?", supplierUUID).First(&supplier).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Supplier not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get supplier")
	}

	return &supplier, nil
}

func (s *SupplierService) GetSuppliers(pagination *models.PaginationRequest, activeOnly bool) (*models.Pagination[[]models.Supplier], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}
	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Supplier{})
	if activeOnly {
		countQuery = countQuery.Where("active = ?", true)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count suppliers")
	}

	var suppliers []models.Supplier
	query := s.db.Order("code ASC").Limit(pagination.Limit)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get suppliers")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Supplier]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      suppliers,
	}, nil
}

func (s *SupplierService) UpdateSupplier(supplierID string, req *models.SupplierUpdateRequest) (*models.Supplier, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	supplier, err := s.GetSupplier(supplierID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		supplier.Name = *req.Name
	}
	if req.ContactName != nil {
		supplier.ContactName = req.ContactName
	}
	if req.ContactEmail != nil {
		supplier.ContactEmail = req.ContactEmail
	}
	if req.ContactPhone != nil {
		supplier.ContactPhone = req.ContactPhone
	}
	if req.Address != nil {
		supplier.Address = req.Address
	}
	if req.Active != nil {
		supplier.Active = *req.Active
	}

	if err := s.db.Save(supplier).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update supplier")
	}

	return supplier, nil
}

// DeleteSupplier deactivates rather than removes: audits keep their
// supplier reference.
func (s *SupplierService) DeleteSupplier(supplierID string) error {
	supplier, err := s.GetSupplier(supplierID)
	if err != nil {
		return err
	}

	supplier.Active = false
	if err := s.db.Save(supplier).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to deactivate supplier")
	}

	return nil
}
