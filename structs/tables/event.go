package tables

import (
	"time"

	"github.com/uptrace/bun"
)

// ProcessedEvent records a payment notification so redeliveries are acknowledged without side effects.
type ProcessedEvent struct {
	bun.BaseModel `bun:"table:processed_events,alias:pe"`

	EventID     string       `bun:"event_id,pk" json:"event_id"`
	EventType   string       `bun:"event_type,notnull" json:"event_type"`
	Outcome     EventOutcome `bun:"outcome,notnull" json:"outcome"`
	ProcessedAt time.Time    `bun:"processed_at,notnull,default:current_timestamp" json:"processed_at"`
}

type EventOutcome string

const (
	EventOutcomeProcessed    EventOutcome = "processed"
	EventOutcomeIgnored      EventOutcome = "ignored"
	EventOutcomeUnreconciled EventOutcome = "unreconciled"
	EventOutcomeDuplicate    EventOutcome = "duplicate"
	EventOutcomeLogged       EventOutcome = "logged"
)
