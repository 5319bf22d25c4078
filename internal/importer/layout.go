package importer

import (
	"github.com/soge-platform/api/internal/normalize"
	"github.com/soge-platform/api/internal/spreadsheet"
	"github.com/soge-platform/api/internal/store"
)

// Each kind is written with its first sheet candidate as the sheet name and
// the first alias of every field as the header, so written workbooks import
// back without loss.
var layout = []struct {
	kind   Kind
	fields []normalize.Field
}{
	{KindClients, []normalize.Field{
		clientIDField, clientNameField, clientPhoneField, clientEmailField, clientNotesField,
	}},
	{KindEvents, []normalize.Field{
		eventIDField, eventClientRefField, eventDateField, eventStartField, eventEndField,
		eventTypeField, eventThemeField, eventKidsField, eventAvgAgeField,
		eventNeighborhoodField, eventAddressField, eventStatusField, eventNotesField,
	}},
	{KindProposals, []normalize.Field{
		proposalIDField, proposalEventRefField, proposalDateField, proposalStatusField,
		proposalPackageField, proposalRevenueField, proposalPriceField, proposalCostField,
		proposalServiceFields[0], proposalServiceFields[1], proposalServiceFields[2],
		proposalServiceFields[3], proposalServiceFields[4],
	}},
	{KindPayments, []normalize.Field{
		paymentIDField, paymentProposalRefField, paymentMethodField, paymentDueDateField,
		paymentExpectedField, paymentPaidDateField, paymentPaidAmountField, paymentInstallmentField,
	}},
}

func layoutSheet(kind Kind) spreadsheet.Sheet {
	for _, l := range layout {
		if l.kind != kind {
			continue
		}
		headers := make([]string, len(l.fields))
		for i, f := range l.fields {
			headers[i] = f[0]
		}
		return spreadsheet.Sheet{Name: sheetCandidates[kind][0], Headers: headers}
	}
	return spreadsheet.Sheet{}
}

// Template returns one empty sheet per kind in import order.
func Template() []spreadsheet.Sheet {
	sheets := make([]spreadsheet.Sheet, 0, len(layout))
	for _, l := range layout {
		sheets = append(sheets, layoutSheet(l.kind))
	}
	return sheets
}

// ExportSheets lays out stored clients and events in the import format.
func ExportSheets(clients []store.Client, events []store.ListEventsRow) []spreadsheet.Sheet {
	clientSheet := layoutSheet(KindClients)
	for _, c := range clients {
		clientSheet.Records = append(clientSheet.Records, []any{
			c.ExternalID, c.Name, optional(c.Phone), optional(c.Email), optional(c.Notes),
		})
	}

	eventSheet := layoutSheet(KindEvents)
	for _, e := range events {
		var date any
		if e.EventDate != nil {
			date = e.EventDate.Format("2006-01-02")
		}
		eventSheet.Records = append(eventSheet.Records, []any{
			e.ExternalID, e.ClientExternalID, date, optional(e.StartTime), optional(e.EndTime),
			optional(e.EventType), optional(e.Theme), optional(e.KidsQty), optional(e.AvgAge),
			optional(e.Neighborhood), optional(e.Address), optional(e.Status), optional(e.Notes),
		})
	}

	return []spreadsheet.Sheet{clientSheet, eventSheet}
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
