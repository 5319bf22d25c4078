package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/normalize"
	"github.com/soge-platform/api/internal/spreadsheet"
	"github.com/soge-platform/api/internal/store"
)

func (im *Importer) importClients(ctx context.Context, tenantID uuid.UUID, sheet string, rows []spreadsheet.Row, _ map[string]uuid.UUID) (tally, error) {
	var t tally
	for _, row := range rows {
		externalID := normalize.Text(normalize.Lookup(row, clientIDField))
		if externalID == nil {
			im.skip(&t, KindClients, sheet, row, reasonMissingID)
			continue
		}
		name := normalize.Text(normalize.Lookup(row, clientNameField))
		if name == nil {
			im.skip(&t, KindClients, sheet, row, reasonMissingName)
			continue
		}

		_, err := im.store.UpsertClient(ctx, store.UpsertClientParams{
			TenantID:   tenantID,
			ExternalID: *externalID,
			Name:       *name,
			Phone:      normalize.Text(normalize.Lookup(row, clientPhoneField)),
			Email:      normalize.Text(normalize.Lookup(row, clientEmailField)),
			Notes:      normalize.Text(normalize.Lookup(row, clientNotesField)),
		})
		if err != nil {
			return t, fmt.Errorf("upsert client %q (row %d): %w", *externalID, row.Line, err)
		}
		t.imported++
	}
	return t, nil
}
