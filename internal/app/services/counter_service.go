package services

import (
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
)

// CounterService reserves values from named persisted counters. The
// increment runs as a single UPDATE inside the caller's transaction, so
// the row lock serializes concurrent reservations and the reserved value
// is only consumed if the surrounding work commits.
type CounterService struct {
	db *gorm.DB
}

func NewCounterService(db *gorm.DB) *CounterService {
	return &CounterService{
		db: db,
	}
}

// NextSequence reserves the next value of the named counter inside tx.
// The counter row is created on first use.
func (s *CounterService) NextSequence(tx *gorm.DB, name string) (int64, error) {
	seed := models.Counter{Name: name, Value: 0}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, errors.NewInternalServerError(err, "Failed to initialize counter")
	}

	res := tx.Model(&models.Counter{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, errors.NewInternalServerError(res.Error, "Failed to advance counter")
	}

	var counter models.Counter
	if err := tx.Where("name = ?", name).First(&counter).Error; err != nil {
		return 0, errors.NewInternalServerError(err, "Failed to read counter")
	}

	return counter.Value, nil
}

// FormatNumber renders a reserved sequence value as a display identifier,
// e.g. FormatNumber("AUD", 123) -> "AUD-000123".
func FormatNumber(prefix string, seq int64) string {
	return fmt.Sprintf("%s-%06d", prefix, seq)
}
