package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Client struct {
	ID         uuid.UUID
	TenantID   uuid.UUID
	ExternalID string
	Name       string
	Phone      *string
	Email      *string
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type ImportRun struct {
	ID              uuid.UUID
	TenantID        uuid.UUID
	CreatedByUserID *uuid.UUID
	Filename        string
	FileSha256      string
	Status          string
	SummaryJSON     []byte
	ErrorMessage    *string
	CreatedAt       time.Time
	CompletedAt     *time.Time
}

const (
	ImportRunStatusRunning   = "running"
	ImportRunStatusCompleted = "completed"
	ImportRunStatusFailed    = "failed"
)

type SessionPrincipal struct {
	SessionID  uuid.UUID
	UserID     uuid.UUID
	TenantID   uuid.UUID
	Email      string
	FullName   string
	TenantSlug string
	TenantName string
	CsrfToken  string
	ExpiresAt  time.Time
}

type UpsertClientParams struct {
	TenantID   uuid.UUID
	ExternalID string
	Name       string
	Phone      *string
	Email      *string
	Notes      *string
}

// Dates are YYYY-MM-DD and times HH:MM strings, cast by the query.
type UpsertEventParams struct {
	TenantID     uuid.UUID
	ExternalID   string
	ClientID     uuid.UUID
	EventDate    *string
	StartTime    *string
	EndTime      *string
	EventType    *string
	Theme        *string
	KidsQty      *int32
	AvgAge       *int32
	Neighborhood *string
	Address      *string
	Status       *string
	Notes        *string
}

type UpsertProposalParams struct {
	TenantID           uuid.UUID
	ExternalID         string
	EventID            uuid.UUID
	ProposalDate       *string
	Status             *string
	PackageDescription *string
	Service1           *string
	Service2           *string
	Service3           *string
	Service4           *string
	Service5           *string
	Revenue            decimal.NullDecimal
	SuggestedPrice     decimal.NullDecimal
	TotalCost          decimal.NullDecimal
}

type UpsertPaymentParams struct {
	TenantID       uuid.UUID
	ExternalID     string
	ProposalID     uuid.UUID
	Method         *string
	DueDate        *string
	ExpectedAmount decimal.NullDecimal
	PaidDate       *string
	PaidAmount     decimal.NullDecimal
	Installments   *int32
}
