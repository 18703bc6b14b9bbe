package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
)

// ReportService produces read-only aggregations over audits. Rendering to
// PDF or spreadsheets happens downstream; this service only computes the
// numbers.
type ReportService struct {
	db           *gorm.DB
	auditService *AuditService
}

func NewReportService(db *gorm.DB, auditService *AuditService) *ReportService {
	return &ReportService{
		db:           db,
		auditService: auditService,
	}
}

func (s *ReportService) GetAuditSummary(auditID string) (*models.AuditSummary, error) {
	audit, err := s.auditService.GetAudit(auditID)
	if err != nil {
		return nil, err
	}

	summary := &models.AuditSummary{
		AuditID:      audit.ID.String(),
		Number:       audit.Number,
		Status:       audit.Status,
		SupplierName: audit.Supplier.Name,
	}

	type lineTotals struct {
		TotalLineItems   int64
		TotalExpected    int64
		TotalReceived    int64
		DiscrepancyLines int64
	}
	var totals lineTotals
	err = s.db.Model(&models.LineItem{}).
		Select("COUNT(*) AS total_line_items, "+
			"COALESCE(SUM(expected_qty), 0) AS total_expected, "+
			"COALESCE(SUM(received_qty), 0) AS total_received, "+
			"COALESCE(SUM(CASE WHEN difference != 0 THEN 1 ELSE 0 END), 0) AS discrepancy_lines").
		Where("audit_id = ?", audit.ID).
		Scan(&totals).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to aggregate line items")
	}

	summary.TotalLineItems = totals.TotalLineItems
	summary.TotalExpected = totals.TotalExpected
	summary.TotalReceived = totals.TotalReceived
	summary.DiscrepancyLines = totals.DiscrepancyLines
	summary.AccuracyPct = accuracyPct(totals.TotalLineItems, totals.DiscrepancyLines)

	if err := s.db.Model(&models.Incident{}).
		Where("audit_id = ?", audit.ID).
		Count(&summary.TotalIncidents).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count incidents")
	}

	if err := s.db.Model(&models.Incident{}).
		Where("audit_id = ? AND status IN ?", audit.ID,
			[]models.IncidentStatus{models.IncidentStatusOpen, models.IncidentStatusInReview}).
		Count(&summary.OpenIncidents).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count open incidents")
	}

	if err := s.db.Model(&models.Evidence{}).
		Where("audit_id = ?", audit.ID).
		Count(&summary.TotalEvidences).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count evidences")
	}

	return summary, nil
}

func (s *ReportService) GetOverview() (*models.OverviewReport, error) {
	report := &models.OverviewReport{
		AuditsByStatus:          map[models.AuditStatus]int64{},
		OpenIncidentsBySeverity: map[models.IncidentSeverity]int64{},
	}

	type statusCount struct {
		Status models.AuditStatus
		Count  int64
	}
	var auditCounts []statusCount
	if err := s.db.Model(&models.Audit{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&auditCounts).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to aggregate audits")
	}
	for _, row := range auditCounts {
		report.AuditsByStatus[row.Status] = row.Count
		report.TotalAudits += row.Count
	}

	type severityCount struct {
		Severity models.IncidentSeverity
		Count    int64
	}
	var incidentCounts []severityCount
	if err := s.db.Model(&models.Incident{}).
		Select("severity, COUNT(*) AS count").
		Where("status IN ?", []models.IncidentStatus{models.IncidentStatusOpen, models.IncidentStatusInReview}).
		Group("severity").
		Scan(&incidentCounts).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to aggregate incidents")
	}
	for _, row := range incidentCounts {
		report.OpenIncidentsBySeverity[row.Severity] = row.Count
		report.TotalOpenIncidents += row.Count
	}

	return report, nil
}

// accuracyPct is the share of lines received exactly as expected,
// rounded to two decimals. An audit with no lines scores zero.
func accuracyPct(totalLines, discrepancyLines int64) decimal.Decimal {
	if totalLines == 0 {
		return decimal.Zero
	}
	matched := decimal.NewFromInt(totalLines - discrepancyLines)
	return matched.Div(decimal.NewFromInt(totalLines)).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}
