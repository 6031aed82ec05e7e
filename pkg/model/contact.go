package model

import (
	"strings"
	"time"
)

type ContactStatus string

const (
	ContactStatusNotStarted ContactStatus = "not_started"
	ContactStatusRound1     ContactStatus = "round_1"
	ContactStatusRound2     ContactStatus = "round_2"
	ContactStatusRound3     ContactStatus = "round_3"
	ContactStatusRound4     ContactStatus = "round_4"
	ContactStatusCompleted  ContactStatus = "completed"
)

// contactStatusAliases lists every raw spelling seen from the field exports and
// the backend, keyed by its lowercased, trimmed form.
var contactStatusAliases = map[string]ContactStatus{
	"not started": ContactStatusNotStarted,
	"not_started": ContactStatusNotStarted,
	"1":           ContactStatusRound1,
	"round_1":     ContactStatusRound1,
	"2":           ContactStatusRound2,
	"round_2":     ContactStatusRound2,
	"3":           ContactStatusRound3,
	"round_3":     ContactStatusRound3,
	"4":           ContactStatusRound4,
	"round_4":     ContactStatusRound4,
	"completed":   ContactStatusCompleted,
}

// NormalizeContactStatus maps a raw status onto the canonical set.
// Anything unrecognized is treated as not started.
func NormalizeContactStatus(raw string) ContactStatus {
	if s, ok := contactStatusAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return s
	}
	return ContactStatusNotStarted
}

type Contact struct {
	ID             int64         `json:"id" db:"id"`
	Name           string        `json:"name" db:"name"`
	Email          string        `json:"email" db:"email"`
	Phone          string        `json:"phone" db:"phone"`
	SerialNumber   string        `json:"serialNumber" db:"serial_number"`
	CUID           string        `json:"cuid" db:"cuid"`
	TicketNumber   string        `json:"ticketNumber" db:"ticket_number"`
	Status         ContactStatus `json:"status" db:"status"`
	Location       string        `json:"location" db:"location"`
	Notes          *string       `json:"notes,omitempty" db:"notes"`
	InterviewCount int           `json:"interview_count" db:"interview_count"`
	CreatedAt      time.Time     `json:"created_at" db:"created_at"`
	LastContact    *time.Time    `json:"last_contact" db:"last_contact"`
}

// Normalized returns a copy of c with its status in canonical form.
func (c Contact) Normalized() Contact {
	c.Status = NormalizeContactStatus(string(c.Status))
	return c
}

type CreateContactReq struct {
	ID           int64   `json:"id,omitempty"`
	Name         string  `json:"name" binding:"required"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	SerialNumber string  `json:"serialNumber"`
	CUID         string  `json:"cuid"`
	TicketNumber string  `json:"ticketNumber"`
	Location     string  `json:"location"`
	Notes        *string `json:"notes,omitempty"`
	Status       string  `json:"status,omitempty"`
}

// PatchContactReq carries only the fields being changed.
type PatchContactReq struct {
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	SerialNumber *string `json:"serialNumber,omitempty"`
	CUID         *string `json:"cuid,omitempty"`
	TicketNumber *string `json:"ticketNumber,omitempty"`
	Location     *string `json:"location,omitempty"`
	Notes        *string `json:"notes,omitempty"`
	Status       *string `json:"status,omitempty"`
}

// Apply merges the patch into c.
func (p PatchContactReq) Apply(c *Contact) {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Email != nil {
		c.Email = *p.Email
	}
	if p.Phone != nil {
		c.Phone = *p.Phone
	}
	if p.SerialNumber != nil {
		c.SerialNumber = *p.SerialNumber
	}
	if p.CUID != nil {
		c.CUID = *p.CUID
	}
	if p.TicketNumber != nil {
		c.TicketNumber = *p.TicketNumber
	}
	if p.Location != nil {
		c.Location = *p.Location
	}
	if p.Notes != nil {
		c.Notes = p.Notes
	}
	if p.Status != nil {
		c.Status = NormalizeContactStatus(*p.Status)
	}
}

type ListContactsQuery struct {
	Query  string `form:"q"`
	Status string `form:"status"`
}
