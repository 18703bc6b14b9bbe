package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recibolab/recibo-core/internal/app/errors"
	"github.com/recibolab/recibo-core/internal/app/models"
)

func TestLineItemService_AddLineItem_PromotesAudit(t *testing.T) {
	env := newTestEnv(t)
	audit := env.seedAudit(t)
	product := env.seedProduct(t)

	item, err := env.lineItems.AddLineItem(audit.ID.String(), &models.LineItemCreateRequest{
		ProductID:   product.ID.String(),
		ExpectedQty: 12,
		ReceivedQty: 15,
	}, env.actor)
	require.NoError(t, err)

	assert.Equal(t, int64(3), item.Difference)
	assert.Equal(t, audit.ID, item.AuditID)

	reloaded, err := env.audits.GetAudit(audit.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.AuditStatusInProcess, reloaded.Status)
	assert.Equal(t, int64(2), reloaded.Version)

	// The promotion is in the transition log.
	history, err := env.history.GetAuditHistory(audit.ID.String())
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.NotNil(t, history[0].FromStatus)
	assert.Equal(t, models.AuditStatusDraft, *history[0].FromStatus)
	assert.Equal(t, models.AuditStatusInProcess, history[0].ToStatus)
}

func TestLineItemService_AddLineItem_UnknownProduct(t *testing.T) {
	env := newTestEnv(t)
	audit := env.seedAudit(t)

	_, err := env.lineItems.AddLineItem(audit.ID.String(), &models.LineItemCreateRequest{
		ProductID:   uuid.NewString(),
		ExpectedQty: 1,
		ReceivedQty: 1,
	}, env.actor)
	requireAppError(t, err, errors.CodeNotFound)
}

func TestLineItemService_AddLineItem_RejectedOnFinalizedAudit(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)
	product := env.seedProduct(t)

	_, err := env.audits.FinalizeAudit(audit.ID.String(), env.actor)
	require.NoError(t, err)

	_, err = env.lineItems.AddLineItem(audit.ID.String(), &models.LineItemCreateRequest{
		ProductID:   product.ID.String(),
		ExpectedQty: 1,
		ReceivedQty: 1,
	}, env.actor)
	requireAppError(t, err, errors.CodeInvalidState)
}

func TestLineItemService_UpdateLineItem_RecomputesDifference(t *testing.T) {
	env := newTestEnv(t)
	audit, item := env.seedAuditWithItem(t)

	received := int64(10)
	updated, err := env.lineItems.UpdateLineItem(audit.ID.String(), item.ID.String(), &models.LineItemUpdateRequest{
		ReceivedQty: &received,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(0), updated.Difference)

	// The parent version moves so concurrent audit writers are fenced.
	reloaded, err := env.audits.GetAudit(audit.ID.String())
	require.NoError(t, err)
	assert.Equal(t, audit.Version+1, reloaded.Version)
}

func TestLineItemService_UpdateLineItem_RejectedOnFinalizedAudit(t *testing.T) {
	env := newTestEnv(t)
	audit, item := env.seedAuditWithItem(t)

	_, err := env.audits.FinalizeAudit(audit.ID.String(), env.actor)
	require.NoError(t, err)

	expected := int64(3)
	_, err = env.lineItems.UpdateLineItem(audit.ID.String(), item.ID.String(), &models.LineItemUpdateRequest{
		ExpectedQty: &expected,
	})
	requireAppError(t, err, errors.CodeInvalidState)
}

func TestLineItemService_RemoveLineItem_KeepsInProcess(t *testing.T) {
	env := newTestEnv(t)
	audit, item := env.seedAuditWithItem(t)

	require.NoError(t, env.lineItems.RemoveLineItem(audit.ID.String(), item.ID.String()))

	items, err := env.lineItems.GetLineItems(audit.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)

	// Removing the last item does not demote the audit back to DRAFT, so
	// finalizing now fails on the zero-item rule.
	reloaded, err := env.audits.GetAudit(audit.ID.String())
	require.NoError(t, err)
	assert.Equal(t, models.AuditStatusInProcess, reloaded.Status)

	_, err = env.audits.FinalizeAudit(audit.ID.String(), env.actor)
	requireAppError(t, err, errors.CodeInvalidState)
}

func TestLineItemService_RemoveLineItem_NotOwned(t *testing.T) {
	env := newTestEnv(t)
	audit, _ := env.seedAuditWithItem(t)
	other, otherItem := env.seedAuditWithItem(t)

	err := env.lineItems.RemoveLineItem(audit.ID.String(), otherItem.ID.String())
	requireAppError(t, err, errors.CodeNotFound)

	items, err := env.lineItems.GetLineItems(other.ID.String())
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
