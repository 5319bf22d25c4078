package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/normalize"
	"github.com/soge-platform/api/internal/spreadsheet"
	"github.com/soge-platform/api/internal/store"
)

func (im *Importer) importProposals(ctx context.Context, tenantID uuid.UUID, sheet string, rows []spreadsheet.Row, events map[string]uuid.UUID) (tally, error) {
	var t tally
	for _, row := range rows {
		externalID := normalize.Text(normalize.Lookup(row, proposalIDField))
		if externalID == nil {
			im.skip(&t, KindProposals, sheet, row, reasonMissingID)
			continue
		}
		eventRef := normalize.Text(normalize.Lookup(row, proposalEventRefField))
		if eventRef == nil {
			im.skip(&t, KindProposals, sheet, row, reasonMissingParentRef)
			continue
		}
		eventID, ok := events[*eventRef]
		if !ok {
			im.skip(&t, KindProposals, sheet, row, reasonUnknownParent)
			continue
		}

		var services [5]*string
		for i, field := range proposalServiceFields {
			services[i] = normalize.Text(normalize.Lookup(row, field))
		}

		_, err := im.store.UpsertProposal(ctx, store.UpsertProposalParams{
			TenantID:           tenantID,
			ExternalID:         *externalID,
			EventID:            eventID,
			ProposalDate:       normalize.Date(normalize.Lookup(row, proposalDateField)),
			Status:             normalize.Text(normalize.Lookup(row, proposalStatusField)),
			PackageDescription: normalize.Text(normalize.Lookup(row, proposalPackageField)),
			Service1:           services[0],
			Service2:           services[1],
			Service3:           services[2],
			Service4:           services[3],
			Service5:           services[4],
			Revenue:            normalize.Money(normalize.Lookup(row, proposalRevenueField)),
			SuggestedPrice:     normalize.Money(normalize.Lookup(row, proposalPriceField)),
			TotalCost:          normalize.Money(normalize.Lookup(row, proposalCostField)),
		})
		if err != nil {
			return t, fmt.Errorf("upsert proposal %q (row %d): %w", *externalID, row.Line, err)
		}
		t.imported++
	}
	return t, nil
}
