package api

import (
	"encoding/json"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/soge-platform/api/internal/importer"
)

type LoginRequest struct {
	Email    openapi_types.Email `json:"email"`
	Password string              `json:"password"`
}

type User struct {
	Id       openapi_types.UUID  `json:"id"`
	Email    openapi_types.Email `json:"email"`
	FullName string              `json:"fullName"`
}

type Tenant struct {
	Id   openapi_types.UUID `json:"id"`
	Slug string             `json:"slug"`
	Name string             `json:"name"`
}

type AuthSessionResponse struct {
	User   User   `json:"user"`
	Tenant Tenant `json:"tenant"`
}

type CsrfResponse struct {
	CsrfToken string `json:"csrfToken"`
}

type ImportResult struct {
	ImportRunId openapi_types.UUID       `json:"importRunId"`
	Sheets      []string                 `json:"sheets"`
	Resolved    map[importer.Kind]string `json:"resolved"`
	Counts      importer.Counts          `json:"counts"`
	Skipped     importer.Counts          `json:"skipped"`
	RequestId   string                   `json:"requestId"`
}

type ImportRun struct {
	Id           openapi_types.UUID `json:"id"`
	Filename     string             `json:"filename"`
	FileSha256   string             `json:"fileSha256"`
	Status       string             `json:"status"`
	Summary      json.RawMessage    `json:"summary,omitempty"`
	ErrorMessage *string            `json:"errorMessage,omitempty"`
	CreatedAt    time.Time          `json:"createdAt"`
	CompletedAt  *time.Time         `json:"completedAt,omitempty"`
}

type ImportRunList struct {
	Items []ImportRun `json:"items"`
}

type Client struct {
	Id         openapi_types.UUID `json:"id"`
	ExternalId string             `json:"externalId"`
	Name       string             `json:"name"`
	Phone      *string            `json:"phone,omitempty"`
	Email      *string            `json:"email,omitempty"`
	Notes      *string            `json:"notes,omitempty"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

type ClientList struct {
	Items []Client `json:"items"`
}

type Event struct {
	Id               openapi_types.UUID  `json:"id"`
	ExternalId       string              `json:"externalId"`
	ClientId         openapi_types.UUID  `json:"clientId"`
	ClientExternalId string              `json:"clientExternalId"`
	ClientName       string              `json:"clientName"`
	EventDate        *openapi_types.Date `json:"eventDate,omitempty"`
	StartTime        *string             `json:"startTime,omitempty"`
	EndTime          *string             `json:"endTime,omitempty"`
	EventType        *string             `json:"eventType,omitempty"`
	Theme            *string             `json:"theme,omitempty"`
	KidsQty          *int32              `json:"kidsQty,omitempty"`
	AvgAge           *int32              `json:"avgAge,omitempty"`
	Neighborhood     *string             `json:"neighborhood,omitempty"`
	Address          *string             `json:"address,omitempty"`
	Status           *string             `json:"status,omitempty"`
	Notes            *string             `json:"notes,omitempty"`
	UpdatedAt        time.Time           `json:"updatedAt"`
}

type EventList struct {
	Items []Event `json:"items"`
}
