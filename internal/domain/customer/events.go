package customer

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeCustomer = "Customer"

// Event type constants
const (
	EventTypeCreated            = "CREATED"
	EventTypeUpdated            = "UPDATED"
	EventTypeDeleted            = "DELETED"
	EventTypeCreditScoreUpdated = "CREDIT_SCORE_UPDATED"
)

// EventDetails is the profile snapshot attached to customer events
type EventDetails struct {
	ID                  uuid.UUID `json:"id"`
	FirstName           string    `json:"firstName"`
	LastName            string    `json:"lastName"`
	Email               string    `json:"email"`
	CreditScore         int       `json:"creditScore"`
	AnnualSalary        float64   `json:"annualSalary"`
	CreditRiskScore     float64   `json:"creditRiskScore"`
	FullName            string    `json:"fullName"`
	IsHighValue         bool      `json:"isHighValue"`
	PreviousCreditScore *int      `json:"previousCreditScore,omitempty"`
	ScoreChange         *int      `json:"scoreChange,omitempty"`
}

// Event is the wire representation of a customer lifecycle event
type Event struct {
	ID         uuid.UUID     `json:"eventId"`
	Type       string        `json:"eventType"`
	CustomerID uuid.UUID     `json:"customerId"`
	Timestamp  time.Time     `json:"timestamp"`
	Message    string        `json:"message"`
	Details    *EventDetails `json:"details,omitempty"`
}

// EventID returns the unique event identifier
func (e *Event) EventID() uuid.UUID {
	return e.ID
}

// EventType returns the type of the event
func (e *Event) EventType() string {
	return e.Type
}

// OccurredAt returns when the event occurred
func (e *Event) OccurredAt() time.Time {
	return e.Timestamp
}

// AggregateID returns the ID of the customer that produced this event
func (e *Event) AggregateID() uuid.UUID {
	return e.CustomerID
}

// AggregateType returns the type of the aggregate
func (e *Event) AggregateType() string {
	return AggregateTypeCustomer
}

func newEvent(eventType string, customerID uuid.UUID, message string, details *EventDetails) *Event {
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		CustomerID: customerID,
		Timestamp:  time.Now().UTC(),
		Message:    message,
		Details:    details,
	}
}

func snapshotOf(c *Customer) *EventDetails {
	return &EventDetails{
		ID:              c.ID,
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		CreditScore:     c.CreditScore,
		AnnualSalary:    c.AnnualSalary,
		CreditRiskScore: c.CreditRiskScore,
		FullName:        c.FullName(),
		IsHighValue:     c.IsHighValue(),
	}
}

// NewCreatedEvent is published when a new customer profile is registered
func NewCreatedEvent(c *Customer) *Event {
	return newEvent(EventTypeCreated, c.ID, "New customer registered", snapshotOf(c))
}

// NewUpdatedEvent is published when a customer profile changes
func NewUpdatedEvent(c *Customer) *Event {
	return newEvent(EventTypeUpdated, c.ID, "Customer information updated", snapshotOf(c))
}

// NewHighValueOrUpdatedEvent is the update-path event. High-value profiles
// get a distinguished message so downstream consumers can surface
// upsell-worthy changes; everyone else gets the standard updated event.
func NewHighValueOrUpdatedEvent(c *Customer) *Event {
	if c.IsHighValue() {
		return newEvent(EventTypeUpdated, c.ID,
			"High-value customer identified - Consider premium services", snapshotOf(c))
	}
	return NewUpdatedEvent(c)
}

// NewDeletedEvent is published when a customer profile is removed.
// The profile no longer exists, so no snapshot is attached.
func NewDeletedEvent(customerID uuid.UUID) *Event {
	return newEvent(EventTypeDeleted, customerID, "Customer account deleted", nil)
}

// NewCreditScoreUpdatedEvent is published when an update changed the credit score
func NewCreditScoreUpdatedEvent(c *Customer, previousScore int) *Event {
	details := snapshotOf(c)
	previous := previousScore
	change := c.CreditScore - previousScore
	details.PreviousCreditScore = &previous
	details.ScoreChange = &change

	message := fmt.Sprintf("Credit score updated from %d to %d", previousScore, c.CreditScore)
	return newEvent(EventTypeCreditScoreUpdated, c.ID, message, details)
}
