package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/recibolab/recibo-core/internal/app/models"
	"github.com/recibolab/recibo-core/internal/infrastructures"
)

// testEnv assembles every service against an in-memory sqlite database.
// The pool is capped at one connection so all goroutines see the same
// in-memory database.
type testEnv struct {
	db        *gorm.DB
	audits    *AuditService
	lineItems *LineItemService
	incidents *IncidentService
	evidences *EvidenceService
	suppliers *SupplierService
	products  *ProductService
	users     *UserService
	history   *HistoryService
	reports   *ReportService
	counters  *CounterService
	actor     uuid.UUID
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Supplier{},
		&models.Product{},
		&models.User{},
		&models.Counter{},
		&models.Audit{},
		&models.LineItem{},
		&models.Incident{},
		&models.Evidence{},
		&models.AuditStatusHistory{},
	))

	validator := infrastructures.NewValidator()
	counters := NewCounterService(db)
	history := NewHistoryService(db)
	audits := NewAuditService(db, validator, counters, history)
	storage := infrastructures.NewLocalObjectStorage(t.TempDir())

	return &testEnv{
		db:        db,
		audits:    audits,
		lineItems: NewLineItemService(db, validator, audits, history),
		incidents: NewIncidentService(db, validator, audits, counters),
		evidences: NewEvidenceService(db, validator, audits, storage),
		suppliers: NewSupplierService(db, validator),
		products:  NewProductService(db, validator),
		users:     NewUserService(db, validator),
		history:   history,
		reports:   NewReportService(db, audits),
		counters:  counters,
		actor:     uuid.New(),
	}
}

// Schema creation and ID generation must work on the test driver, not
// just on a Postgres server-side default.
func TestMigrationsGenerateIDsOnCreate(t *testing.T) {
	env := newTestEnv(t)

	supplier := &models.Supplier{Code: "SUP-IDS", Name: "Acme", Active: true}
	require.NoError(t, env.db.Create(supplier).Error)
	require.NotEqual(t, uuid.Nil, supplier.ID)

	audit := &models.Audit{
		Number:              "AUD-999999",
		SupplierID:          supplier.ID,
		PurchaseOrderNumber: "PO-1",
		Status:              models.AuditStatusDraft,
		CreatedBy:           uuid.New(),
		Version:             1,
	}
	require.NoError(t, env.db.Create(audit).Error)
	require.NotEqual(t, uuid.Nil, audit.ID)

	history := &models.AuditStatusHistory{AuditID: audit.ID, ToStatus: models.AuditStatusDraft}
	require.NoError(t, env.db.Create(history).Error)
	require.NotEqual(t, uuid.Nil, history.ID)
}

func (e *testEnv) seedSupplier(t *testing.T) *models.Supplier {
	t.Helper()
	supplier, err := e.suppliers.CreateSupplier(&models.SupplierCreateRequest{
		Code: "SUP-" + uuid.NewString()[:8],
		Name: "Acme Logistics",
	})
	require.NoError(t, err)
	return supplier
}

func (e *testEnv) seedProduct(t *testing.T) *models.Product {
	t.Helper()
	product, err := e.products.CreateProduct(&models.ProductCreateRequest{
		SKU:  "SKU-" + uuid.NewString()[:8],
		Name: "Widget",
	})
	require.NoError(t, err)
	return product
}

func (e *testEnv) seedAudit(t *testing.T) *models.Audit {
	t.Helper()
	supplier := e.seedSupplier(t)
	audit, err := e.audits.CreateAudit(&models.AuditCreateRequest{
		SupplierID:          supplier.ID.String(),
		PurchaseOrderNumber: "PO-1001",
	}, e.actor)
	require.NoError(t, err)
	return audit
}

func (e *testEnv) seedAuditWithItem(t *testing.T) (*models.Audit, *models.LineItem) {
	t.Helper()
	audit := e.seedAudit(t)
	product := e.seedProduct(t)
	item, err := e.lineItems.AddLineItem(audit.ID.String(), &models.LineItemCreateRequest{
		ProductID:   product.ID.String(),
		ExpectedQty: 10,
		ReceivedQty: 8,
	}, e.actor)
	require.NoError(t, err)

	audit, err = e.audits.GetAudit(audit.ID.String())
	require.NoError(t, err)
	return audit, item
}
