package models

import (
	"github.com/shopspring/decimal"
)

// AuditSummary is the per-audit receiving report: expected vs. received
// totals, how many lines diverged, and how clean the delivery was.
type AuditSummary struct {
	AuditID          string          `json:"audit_id"`
	Number           string          `json:"number"`
	Status           AuditStatus     `json:"status"`
	SupplierName     string          `json:"supplier_name"`
	TotalLineItems   int64           `json:"total_line_items"`
	TotalExpected    int64           `json:"total_expected"`
	TotalReceived    int64           `json:"total_received"`
	DiscrepancyLines int64           `json:"discrepancy_lines"`
	AccuracyPct      decimal.Decimal `json:"accuracy_pct"`
	TotalIncidents   int64           `json:"total_incidents"`
	OpenIncidents    int64           `json:"open_incidents"`
	TotalEvidences   int64           `json:"total_evidences"`
}

// OverviewReport aggregates the whole system for dashboards.
type OverviewReport struct {
	AuditsByStatus          map[AuditStatus]int64      `json:"audits_by_status"`
	OpenIncidentsBySeverity map[IncidentSeverity]int64 `json:"open_incidents_by_severity"`
	TotalAudits             int64                      `json:"total_audits"`
	TotalOpenIncidents      int64                      `json:"total_open_incidents"`
}
