package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/normalize"
	"github.com/soge-platform/api/internal/spreadsheet"
	"github.com/soge-platform/api/internal/store"
)

func (im *Importer) importPayments(ctx context.Context, tenantID uuid.UUID, sheet string, rows []spreadsheet.Row, proposals map[string]uuid.UUID) (tally, error) {
	var t tally
	for _, row := range rows {
		externalID := normalize.Text(normalize.Lookup(row, paymentIDField))
		if externalID == nil {
			im.skip(&t, KindPayments, sheet, row, reasonMissingID)
			continue
		}
		proposalRef := normalize.Text(normalize.Lookup(row, paymentProposalRefField))
		if proposalRef == nil {
			im.skip(&t, KindPayments, sheet, row, reasonMissingParentRef)
			continue
		}
		proposalID, ok := proposals[*proposalRef]
		if !ok {
			im.skip(&t, KindPayments, sheet, row, reasonUnknownParent)
			continue
		}

		_, err := im.store.UpsertPayment(ctx, store.UpsertPaymentParams{
			TenantID:       tenantID,
			ExternalID:     *externalID,
			ProposalID:     proposalID,
			Method:         normalize.Text(normalize.Lookup(row, paymentMethodField)),
			DueDate:        normalize.Date(normalize.Lookup(row, paymentDueDateField)),
			ExpectedAmount: normalize.Money(normalize.Lookup(row, paymentExpectedField)),
			PaidDate:       normalize.Date(normalize.Lookup(row, paymentPaidDateField)),
			PaidAmount:     normalize.Money(normalize.Lookup(row, paymentPaidAmountField)),
			Installments:   normalize.Int(normalize.Lookup(row, paymentInstallmentField)),
		})
		if err != nil {
			return t, fmt.Errorf("upsert payment %q (row %d): %w", *externalID, row.Line, err)
		}
		t.imported++
	}
	return t, nil
}
