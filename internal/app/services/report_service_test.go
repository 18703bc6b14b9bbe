package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recibolab/recibo-core/internal/app/models"
)

func TestReportService_GetAuditSummary(t *testing.T) {
	env := newTestEnv(t)
	audit := env.seedAudit(t)

	quantities := []struct{ expected, received int64 }{
		{10, 10},
		{5, 3},
		{8, 8},
	}
	for _, q := range quantities {
		product := env.seedProduct(t)
		_, err := env.lineItems.AddLineItem(audit.ID.String(), &models.LineItemCreateRequest{
			ProductID:   product.ID.String(),
			ExpectedQty: q.expected,
			ReceivedQty: q.received,
		}, env.actor)
		require.NoError(t, err)
	}

	incident, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		Type:        models.IncidentTypeMissing,
		Severity:    models.IncidentSeverityHigh,
		Description: "short on the second line",
	}, env.actor)
	require.NoError(t, err)

	summary, err := env.reports.GetAuditSummary(audit.ID.String())
	require.NoError(t, err)

	assert.Equal(t, audit.Number, summary.Number)
	assert.Equal(t, int64(3), summary.TotalLineItems)
	assert.Equal(t, int64(23), summary.TotalExpected)
	assert.Equal(t, int64(21), summary.TotalReceived)
	assert.Equal(t, int64(1), summary.DiscrepancyLines)
	assert.True(t, summary.AccuracyPct.Equal(decimal.RequireFromString("66.67")),
		"accuracy = %s", summary.AccuracyPct)
	assert.Equal(t, int64(1), summary.TotalIncidents)
	assert.Equal(t, int64(1), summary.OpenIncidents)
	assert.Equal(t, int64(0), summary.TotalEvidences)

	_, err = env.incidents.ResolveIncident(incident.ID.String(), &models.IncidentResolveRequest{
		Resolution: "credited",
	})
	require.NoError(t, err)

	summary, err = env.reports.GetAuditSummary(audit.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(1), summary.TotalIncidents)
	assert.Equal(t, int64(0), summary.OpenIncidents)
}

func TestReportService_GetAuditSummary_NoLineItems(t *testing.T) {
	env := newTestEnv(t)
	audit := env.seedAudit(t)

	summary, err := env.reports.GetAuditSummary(audit.ID.String())
	require.NoError(t, err)

	assert.Equal(t, int64(0), summary.TotalLineItems)
	assert.True(t, summary.AccuracyPct.IsZero())
}

func TestReportService_GetOverview(t *testing.T) {
	env := newTestEnv(t)

	env.seedAudit(t)
	inProcess, _ := env.seedAuditWithItem(t)
	finalized, _ := env.seedAuditWithItem(t)
	_, err := env.audits.FinalizeAudit(finalized.ID.String(), env.actor)
	require.NoError(t, err)

	for _, severity := range []models.IncidentSeverity{models.IncidentSeverityHigh, models.IncidentSeverityHigh, models.IncidentSeverityLow} {
		_, err := env.incidents.RaiseIncident(inProcess.ID.String(), &models.IncidentCreateRequest{
			Type:        models.IncidentTypeDamaged,
			Severity:    severity,
			Description: "observation",
		}, env.actor)
		require.NoError(t, err)
	}

	report, err := env.reports.GetOverview()
	require.NoError(t, err)

	assert.Equal(t, int64(3), report.TotalAudits)
	assert.Equal(t, int64(1), report.AuditsByStatus[models.AuditStatusDraft])
	assert.Equal(t, int64(1), report.AuditsByStatus[models.AuditStatusInProcess])
	assert.Equal(t, int64(1), report.AuditsByStatus[models.AuditStatusFinalized])

	assert.Equal(t, int64(3), report.TotalOpenIncidents)
	assert.Equal(t, int64(2), report.OpenIncidentsBySeverity[models.IncidentSeverityHigh])
	assert.Equal(t, int64(1), report.OpenIncidentsBySeverity[models.IncidentSeverityLow])
}

func TestAccuracyPct(t *testing.T) {
	assert.True(t, accuracyPct(0, 0).IsZero())
	assert.True(t, accuracyPct(4, 0).Equal(decimal.NewFromInt(100)))
	assert.True(t, accuracyPct(4, 4).IsZero())
	assert.True(t, accuracyPct(3, 1).Equal(decimal.RequireFromString("66.67")))
}
