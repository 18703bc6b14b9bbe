package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
)

func TestSupplierService_DuplicateCode(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.suppliers.CreateSupplier(&models.SupplierCreateRequest{Code: "ACME", Name: "Acme"})
	require.NoError(t, err)

	_, err = env.suppliers.CreateSupplier(&models.SupplierCreateRequest{Code: "ACME", Name: "Acme Clone"})
	requireAppError(t, err, errors.CodeConstraint)
}

func TestSupplierService_DeleteDeactivates(t *testing.T) {
	env := newTestEnv(t)
	supplier := env.seedSupplier(t)

	require.NoError(t, env.suppliers.DeleteSupplier(supplier.ID.String()))

	// The row survives for historical audits, only the flag drops.
	reloaded, err := env.suppliers.GetSupplier(supplier.ID.String())
	require.NoError(t, err)
	assert.False(t, reloaded.Active)

	active, err := env.suppliers.GetSuppliers(&models.PaginationRequest{}, true)
	require.NoError(t, err)
	assert.Equal(t, 0, active.TotalItems)
}

func TestSupplierService_InvalidContactEmail(t *testing.T) {
	env := newTestEnv(t)

	email := "not-an-email"
	_, err := env.suppliers.CreateSupplier(&models.SupplierCreateRequest{
		Code:         "SUP-1",
		Name:         "Acme",
		ContactEmail: &email,
	})
	appErr := requireAppError(t, err, errors.CodeValidation)
	require.Len(t, appErr.Fields, 1)
	assert.Equal(t, "contactemail", appErr.Fields[0].Field)
}

func TestProductService_DuplicateSKU(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.products.CreateProduct(&models.ProductCreateRequest{SKU: "W-100", Name: "Widget"})
	require.NoError(t, err)

	_, err = env.products.CreateProduct(&models.ProductCreateRequest{SKU: "W-100", Name: "Widget Copy"})
	requireAppError(t, err, errors.CodeConstraint)
}

func TestProductService_GetBySKU(t *testing.T) {
	env := newTestEnv(t)

	created, err := env.products.CreateProduct(&models.ProductCreateRequest{SKU: "W-200", Name: "Gadget", Unit: "box"})
	require.NoError(t, err)

	found, err := env.products.GetProductBySKU("W-200")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "box", found.Unit)

	_, err = env.products.GetProductBySKU("W-999")
	requireAppError(t, err, errors.CodeNotFound)
}

func TestProductService_UnitDefaults(t *testing.T) {
	env := newTestEnv(t)

	product, err := env.products.CreateProduct(&models.ProductCreateRequest{SKU: "W-300", Name: "Sprocket"})
	require.NoError(t, err)
	assert.Equal(t, "unit", product.Unit)
}

func TestUserService_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.CreateUser(&models.UserCreateRequest{
		Username: "mgarcia",
		FullName: "M. Garcia",
		Email:    "mgarcia@example.com",
	})
	require.NoError(t, err)

	_, err = env.users.CreateUser(&models.UserCreateRequest{
		Username: "mgarcia",
		FullName: "Someone Else",
		Email:    "other@example.com",
	})
	requireAppError(t, err, errors.CodeConstraint)
}

func TestUserService_RoleDefaultsToAuditor(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.CreateUser(&models.UserCreateRequest{
		Username: "viewer1",
		FullName: "V. One",
		Email:    "v1@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.UserRoleAuditor, user.Role)
	assert.True(t, user.Active)
}
