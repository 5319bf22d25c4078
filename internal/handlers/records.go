package handlers

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/soge-platform/api/internal/api"
	"github.com/soge-platform/api/internal/httpx"
	"github.com/soge-platform/api/internal/middleware"
	"github.com/soge-platform/api/internal/store"
)

const maxListLimit = 200

func (s *Server) GetClients(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.RequireActor(w, r)
	if !ok {
		return
	}

	clients, err := s.Q.ListClients(r.Context(), store.ListClientsParams{
		TenantID: actor.TenantID,
		Limit:    queryLimit(r, maxListLimit, maxListLimit),
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list clients", nil)
		return
	}

	items := make([]api.Client, 0, len(clients))
	for _, c := range clients {
		items = append(items, api.Client{
			Id:         c.ID,
			ExternalId: c.ExternalID,
			Name:       c.Name,
			Phone:      c.Phone,
			Email:      c.Email,
			Notes:      c.Notes,
			UpdatedAt:  c.UpdatedAt.UTC(),
		})
	}
	httpx.WriteJSON(w, http.StatusOK, api.ClientList{Items: items})
}

func (s *Server) GetEvents(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.RequireActor(w, r)
	if !ok {
		return
	}

	events, err := s.Q.ListEvents(r.Context(), store.ListEventsParams{
		TenantID: actor.TenantID,
		Limit:    queryLimit(r, maxListLimit, maxListLimit),
	})
	if err != nil {
		httpx.WriteError(w, r, http.StatusInternalServerError, "internal_error", "Failed to list events", nil)
		return
	}

	items := make([]api.Event, 0, len(events))
	for _, e := range events {
		items = append(items, mapEvent(e))
	}
	httpx.WriteJSON(w, http.StatusOK, api.EventList{Items: items})
}

func mapEvent(e store.ListEventsRow) api.Event {
	event := api.Event{
		Id:               e.ID,
		ExternalId:       e.ExternalID,
		ClientId:         e.ClientID,
		ClientExternalId: e.ClientExternalID,
		ClientName:       e.ClientName,
		StartTime:        e.StartTime,
		EndTime:          e.EndTime,
		EventType:        e.EventType,
		Theme:            e.Theme,
		KidsQty:          e.KidsQty,
		AvgAge:           e.AvgAge,
		Neighborhood:     e.Neighborhood,
		Address:          e.Address,
		Status:           e.Status,
		Notes:            e.Notes,
		UpdatedAt:        e.UpdatedAt.UTC(),
	}
	if e.EventDate != nil {
		event.EventDate = &openapi_types.Date{Time: *e.EventDate}
	}
	return event
}
