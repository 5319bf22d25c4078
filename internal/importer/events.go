package importer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/soge-platform/api/internal/normalize"
	"github.com/soge-platform/api/internal/spreadsheet"
	"github.com/soge-platform/api/internal/store"
)

func (im *Importer) importEvents(ctx context.Context, tenantID uuid.UUID, sheet string, rows []spreadsheet.Row, clients map[string]uuid.UUID) (tally, error) {
	var t tally
	for _, row := range rows {
		externalID := normalize.Text(normalize.Lookup(row, eventIDField))
		if externalID == nil {
			im.skip(&t, KindEvents, sheet, row, reasonMissingID)
			continue
		}
		clientRef := normalize.Text(normalize.Lookup(row, eventClientRefField))
		if clientRef == nil {
			im.skip(&t, KindEvents, sheet, row, reasonMissingParentRef)
			continue
		}
		clientID, ok := clients[*clientRef]
		if !ok {
			im.skip(&t, KindEvents, sheet, row, reasonUnknownParent)
			continue
		}

		_, err := im.store.UpsertEvent(ctx, store.UpsertEventParams{
			TenantID:     tenantID,
			ExternalID:   *externalID,
			ClientID:     clientID,
			EventDate:    normalize.Date(normalize.Lookup(row, eventDateField)),
			StartTime:    normalize.Time(normalize.Lookup(row, eventStartField)),
			EndTime:      normalize.Time(normalize.Lookup(row, eventEndField)),
			EventType:    normalize.Text(normalize.Lookup(row, eventTypeField)),
			Theme:        normalize.Text(normalize.Lookup(row, eventThemeField)),
			KidsQty:      normalize.Int(normalize.Lookup(row, eventKidsField)),
			AvgAge:       normalize.Int(normalize.Lookup(row, eventAvgAgeField)),
			Neighborhood: normalize.Text(normalize.Lookup(row, eventNeighborhoodField)),
			Address:      normalize.Text(normalize.Lookup(row, eventAddressField)),
			Status:       normalize.Text(normalize.Lookup(row, eventStatusField)),
			Notes:        normalize.Text(normalize.Lookup(row, eventNotesField)),
		})
		if err != nil {
			return t, fmt.Errorf("upsert event %q (row %d): %w", *externalID, row.Line, err)
		}
		t.imported++
	}
	return t, nil
}
