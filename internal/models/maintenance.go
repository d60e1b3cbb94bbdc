package models

import (
	"time"

	"hestia/internal/expenses"
)

type RequestStatus string

const (
	RequestReceived   RequestStatus = "Received"
	RequestInProgress RequestStatus = "InProgress"
	RequestCompleted  RequestStatus = "Completed"
	RequestCancelled  RequestStatus = "Cancelled"
	RequestOnHold     RequestStatus = "OnHold"
)

// ParseRequestStatus validates a status string
func ParseRequestStatus(s string) (RequestStatus, bool) {
	switch st := RequestStatus(s); st {
	case RequestReceived, RequestInProgress, RequestCompleted, RequestCancelled, RequestOnHold:
		return st, true
	}
	return "", false
}

// MaintenanceRequest is a leaseholder's request for work on their unit.
// Kind uses the Maintenance branch of the expense taxonomy.
type MaintenanceRequest struct {
	ID             int64         `json:"id"`
	LeaseholderID  int64         `json:"leaseholder_id" binding:"required"`
	RequestDate    time.Time     `json:"request_date"`
	Kind           expenses.Type `json:"kind"`
	Description    string        `json:"description"`
	Status         RequestStatus `json:"status"`
	CompletionDate *time.Time    `json:"completion_date"`
}
