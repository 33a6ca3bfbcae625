package models

import "time"

const (
	TicketOpen       = "open"
	TicketInProgress = "in_progress"
	TicketResolved   = "resolved"
	TicketClosed     = "closed"

	DefaultTicketTopic = "general"
)

type SupportTicket struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Email       string    `json:"email" bson:"email"`
	Subject     *string   `json:"subject" bson:"subject"`
	Topic       string    `json:"topic" bson:"topic"`
	OrderNumber *string   `json:"orderNumber" bson:"orderNumber"`
	Message     string    `json:"message" bson:"message"`
	Status      string    `json:"status" bson:"status"`
	CreatedAt   time.Time `json:"createdAt" bson:"createdAt"`
}

type SupportTicketInput struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Subject     string `json:"subject"`
	Topic       string `json:"topic"`
	// OrderNumber is a string or a number, whichever the form sent.
	OrderNumber any    `json:"orderNumber"`
	Message     string `json:"message"`
}

// TicketFilter narrows an admin ticket listing. An empty Status means all.
type TicketFilter struct {
	Status string
	Limit  int
}

// NormalizeTicketStatus returns s when it is a known ticket status, "" otherwise.
func NormalizeTicketStatus(s string) string {
	switch s {
	case TicketOpen, TicketInProgress, TicketResolved, TicketClosed:
		return s
	default:
		return ""
	}
}
