package services

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

// UserService manages the local projection of identity-provider subjects.
// Authentication itself happens upstream; this service only resolves and
// administers roles.
type UserService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewUserService(db *gorm.DB, validator *infrastructures.Validator) *UserService {
	return &UserService{
		db:        db,
		validator: validator,
	}
}

func (s *UserService) CreateUser(req *models.UserCreateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = models.UserRoleAuditor
	}

	user := &models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Role:     role,
		Active:   true,
	}

	if err := s.db.Create(user).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return nil, errors.NewConstraintViolationError("Username already exists")
		}
		return nil, errors.NewInternalServerError(err, "Failed to create user")
	}

	return user, nil
}

func (s *UserService) GetUser(userID string) (*models.User, error) {
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, errors.NewValidationError("Invalid user ID format")
	}

	var user models.User
	if err := s.db.Where("id = ?", userUUID).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("User not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get user")
	}

	return &user, nil
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.Where("username = ?", username).First(&user).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("User not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get user")
	}

	return &user, nil
}

func (s *UserService) GetUsers(pagination *models.PaginationRequest) (*models.Pagination[[]models.User], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}
	offset := (pagination.Page - 1) * pagination.Limit

	var totalItems int64
	if err := s.db.Model(&models.User{}).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count users")
	}

	var users []models.User
	query := s.db.Order("username ASC").Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&users).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get users")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.User]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      users,
	}, nil
}

func (s *UserService) UpdateUser(userID string, req *models.UserUpdateRequest) (*models.User, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		user.FullName = *req.FullName
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Role != nil {
		user.Role = *req.Role
	}
	if req.Active != nil {
		user.Active = *req.Active
	}

	if err := s.db.Save(user).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update user")
	}

	return user, nil
}
