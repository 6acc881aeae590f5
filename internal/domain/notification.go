package domain

import (
	"time"

	"github.com/google/uuid"
)

const (
	DefaultNotifySubject = "Blood Donation Request"
	DefaultNotifyMessage = "Hello, this is a request for blood donation. Please reply if available."
)

type NotifyInput struct {
	IDs     []int  `json:"ids"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

type NotifyResult struct {
	Sent int `json:"sent"`
}

// Message is one outbound mail. Bcc recipients never see each other.
type Message struct {
	From    string
	To      string
	Bcc     []string
	Subject string
	Body    string
}

type DispatchStatus string

const (
	DispatchSent   DispatchStatus = "SENT"
	DispatchFailed DispatchStatus = "FAILED"
)

type Dispatch struct {
	ID             uuid.UUID      `json:"id" db:"id"`
	Subject        string         `json:"subject" db:"subject"`
	RecipientCount int            `json:"recipient_count" db:"recipient_count"`
	Status         DispatchStatus `json:"status" db:"status"`
	Error          *string        `json:"error,omitempty" db:"error"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
}
