package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

type ProductService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewProductService(db *gorm.DB, validator *infrastructures.Validator) *ProductService {
	return &ProductService{
		db:        db,
		validator: validator,
	}
}

func (s *ProductService) CreateProduct(req *models.ProductCreateRequest) (*models.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	unit := req.Unit
	if unit == "" {
		unit = "unit"
	}

	product := &models.Product{
		SKU:         req.SKU,
		Name:        req.Name,
		Description: req.Description,
		Unit:        unit,
		Active:      true,
	}

	if err := s.db.Create(product).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.NewConstraintViolationError("Product SKU already exists")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create product")
	}

	return product, nil
}

func (s *ProductService) GetProduct(productID string) (*models.Product, error) {
	productUUID, err := uuid.Parse(productID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid product ID format")
	}

	var product models.Product
	if err := s.db.Where("id = ?", productUUID).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Product not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get product")
	}

	return &product, nil
}

func (s *ProductService) GetProductBySKU(sku string) (*models.Product, error) {
	var product models.Product
	if err := s.db.Where("sku = ?", sku).First(&product).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Product not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get product")
	}

	return &product, nil
}

func (s *ProductService) GetProducts(pagination *models.PaginationRequest, activeOnly bool) (*models.Pagination[[]models.Product], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}
	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Product{})
	if activeOnly {
		countQuery = countQuery.Where("active = ?", true)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count products")
	}

	var products []models.Product
	query := s.db.Order("sku ASC").Limit(pagination.Limit)
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&products).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get products")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Product]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      products,
	}, nil
}

func (s *ProductService) UpdateProduct(productID string, req *models.ProductUpdateRequest) (*models.Product, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.db.Save(product).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update product")
	}

	return product, nil
}

// DeleteProduct deactivates rather than removes: historical line items
// keep their product reference.
func (s *ProductService) DeleteProduct(productID string) error {
	product, err := s.GetProduct(productID)
	if err != nil {
		return err
	}

	product.Active = false
	if err := s.db.Save(product).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to deactivate product")
	}

	return nil
}
