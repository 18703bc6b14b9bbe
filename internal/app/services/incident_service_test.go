package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
)

func TestIncidentService_RaiseIncident(t *testing.T) {
	env := newTestEnv(t)
	audit, item := env.seedAuditWithItem(t)

	lineItemID := item.ID.String()
	incident, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		LineItemID:  &lineItemID,
		Type:        models.IncidentTypeMissing,
		Severity:    models.IncidentSeverityHigh,
		Description: "two units short of the order",
	}, env.actor)
	require.NoError(t, err)

	assert.Equal(t, "INC-000001", incident.Number)
	assert.Equal(t, models.IncidentStatusOpen, incident.Status)
	require.NotNil(t, incident.LineItemID)
	assert.Equal(t, item.ID, *incident.LineItemID)

	reloaded, err := env.audits.GetAudit(audit.ID.String())
	require.NoError(t, err)
	assert.True(t, reloaded.HasIncidents)
	assert.Equal(t, audit.Version+1, reloaded.Version)
}

func TestIncidentService_RaiseIncident_LineItemMustBelongToAudit(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)
	_, foreignItem := env.seedAuditWithItem(t)

	foreignID := foreignItem.ID.String()
	_, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		LineItemID:  &foreignID,
		Type:        models.IncidentTypeDamaged,
		Severity:    models.IncidentSeverityLow,
		Description: "crushed box",
	}, env.actor)
	requireAppError(t, err, errors.CodeNotFound)

	reloaded, err := env.audits.GetAudit(audit.ID.String())
	require.NoError(t, err)
	assert.False(t, reloaded.HasIncidents)
}

func TestIncidentService_RaiseIncident_RejectedOnFinalizedAudit(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)

	_, err := env.audits.FinalizeAudit(audit.ID.String(), env.actor)
	require.NoError(t, err)

	_, err = env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		Type:        models.IncidentTypeOther,
		Severity:    models.IncidentSeverityLow,
		Description: "late observation",
	}, env.actor)
	requireAppError(t, err, errors.CodeInvalidState)
}

func TestIncidentService_RaiseIncident_ValidationRejectsUnknownType(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)

	_, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		Type:        "SHRINKAGE",
		Severity:    models.IncidentSeverityLow,
		Description: "unknown type",
	}, env.actor)
	requireAppError(t, err, errors.CodeValidation)
}

func TestIncidentService_ReviewAndResolve(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)

	incident, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		Type:        models.IncidentTypeMissing,
		Severity:    models.IncidentSeverityMedium,
		Description: "short delivery",
	}, env.actor)
	require.NoError(t, err)

	inReview, err := env.incidents.StartReview(incident.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.IncidentStatusInReview, inReview.Status)

	resolved, err := env.incidents.ResolveIncident(incident.ID.String(), &models.IncidentResolveRequest{
		Resolution: "supplier shipped the missing units",
	})
	require.NoError(t, err)
	assert.Equal(t, models.IncidentStatusResolved, resolved.Status)
	require.NotNil(t, resolved.Resolution)
	require.NotNil(t, resolved.ResolvedAt)

	// Settled incidents accept no further outcomes.
	_, err = env.incidents.ResolveIncident(incident.ID.String(), &models.IncidentResolveRequest{Resolution: "again"})
	requireAppError(t, err, errors.CodeInvalidState)
	_, err = env.incidents.StartReview(incident.ID.String())
	requireAppError(t, err, errors.CodeInvalidState)
}

func TestIncidentService_Reject(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)

	incident, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		Type:        models.IncidentTypeDocumentation,
		Severity:    models.IncidentSeverityLow,
		Description: "missing delivery note",
	}, env.actor)
	require.NoError(t, err)

	rejected, err := env.incidents.RejectIncident(incident.ID.String(), &models.IncidentResolveRequest{
		Resolution: "note was found in the second pallet",
	})
	require.NoError(t, err)
	assert.Equal(t, models.IncidentStatusRejected, rejected.Status)
}

func TestIncidentService_UpdateIncident_AssigneeMustExist(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)

	incident, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		Type:        models.IncidentTypeOverage,
		Severity:    models.IncidentSeverityLow,
		Description: "three extra units",
	}, env.actor)
	require.NoError(t, err)

	missing := uuid.NewString()
	_, err = env.incidents.UpdateIncident(incident.ID.String(), &models.IncidentUpdateRequest{
		AssigneeID: &missing,
	})
	requireAppError(t, err, errors.CodeNotFound)

	assignee, err := env.users.CreateUser(&models.UserCreateRequest{
		Username: "jsalas",
		FullName: "J. Salas",
		Email:    "jsalas@example.com",
	})
	require.NoError(t, err)

	assigneeID := assignee.ID.String()
	severity := models.IncidentSeverityCritical
	updated, err := env.incidents.UpdateIncident(incident.ID.String(), &models.IncidentUpdateRequest{
		Severity:   &severity,
		AssigneeID: &assigneeID,
	})
	require.NoError(t, err)
	assert.Equal(t, models.IncidentSeverityCritical, updated.Severity)
	require.NotNil(t, updated.AssigneeID)
	assert.Equal(t, assignee.ID, *updated.AssigneeID)
}

func TestIncidentService_StaleWriterCannotRevertSettledIncident(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)

	incident, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
		Type:        models.IncidentTypeMissing,
		Severity:    models.IncidentSeverityMedium,
		Description: "short delivery",
	}, env.actor)
	require.NoError(t, err)

	// Two reviewers load the same OPEN incident; the first resolves it.
	stale, err := env.incidents.GetIncident(incident.ID.String())
	require.NoError(t, err)

	_, err = env.incidents.ResolveIncident(incident.ID.String(), &models.IncidentResolveRequest{
		Resolution: "replacement shipped",
	})
	require.NoError(t, err)

	// The second reviewer's guard passed against the stale copy, but the
	// write itself must lose: the row is no longer open.
	require.NoError(t, stale.Reject("duplicate report", time.Now()))
	err = settleIncident(env.db, stale, openIncidentStatuses, map[string]interface{}{
		"status":      stale.Status,
		"resolution":  stale.Resolution,
		"resolved_at": stale.ResolvedAt,
	})
	requireAppError(t, err, errors.CodeConcurrency)

	reloaded, err := env.incidents.GetIncident(incident.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.IncidentStatusResolved, reloaded.Status)
	require.NotNil(t, reloaded.Resolution)
	assert.Equal(t, "replacement shipped", *reloaded.Resolution)
}

func TestIncidentService_SequentialNumbersAcrossAudits(t *testing.T) {
	env := newTestEnv(t)
	first, _ := env.seedAuditWithItem(t)
	second, _ := env.seedAuditWithItem(t)

	a, err := env.incidents.RaiseIncident(first.ID.String(), &models.IncidentCreateRequest{
		Type:        models.IncidentTypeMissing,
		Severity:    models.IncidentSeverityLow,
		Description: "first",
	}, env.actor)
	require.NoError(t, err)

	b, err := env.incidents.RaiseIncident(second.ID.String(), &models.IncidentCreateRequest{
		Type:        models.IncidentTypeMissing,
		Severity:    models.IncidentSeverityLow,
		Description: "second",
	}, env.actor)
	require.NoError(t, err)

	assert.Equal(t, "INC-000001", a.Number)
	assert.Equal(t, "INC-000002", b.Number)
}

func TestIncidentService_GetIncidents_FilterBySeverity(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)

	for _, severity := range []models.IncidentSeverity{models.IncidentSeverityLow, models.IncidentSeverityHigh} {
		_, err := env.incidents.RaiseIncident(audit.ID.String(), &models.IncidentCreateRequest{
			Type:        models.IncidentTypeOther,
			Severity:    severity,
			Description: "observation",
		}, env.actor)
		require.NoError(t, err)
	}

	high := models.IncidentSeverityHigh
	page, err := env.incidents.GetIncidents(&models.PaginationRequest{}, &models.IncidentListFilter{Severity: &high})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, models.IncidentSeverityHigh, page.Items[0].Severity)
}
