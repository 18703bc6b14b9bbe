package models

// Counter is the persisted sequence source behind human-readable numbers.
// Rows are locked and incremented inside the transaction that consumes the
// reserved value, so concurrent creations never mint the same number.
type Counter struct {
	Name  string `json:"name" gorm:"type:varchar(50);primaryKey"`
	Value int64  `json:"value" gorm:"not null;default:0"`
}

const (
	CounterAudits    = "audits"
	CounterIncidents = "incidents"
)
