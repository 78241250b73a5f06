package model

import (
	"math"
	"time"
)

// IncidentStatus values match the vocabulary the dashboard renders.
// Anything other than Completed counts as pending in treatment stats.
type IncidentStatus string

const (
	StatusScheduled  IncidentStatus = "Scheduled"
	StatusInProgress IncidentStatus = "In Progress"
	StatusCompleted  IncidentStatus = "Completed"
	StatusCancelled  IncidentStatus = "Cancelled"
)

// Incident is a scheduled dental appointment/treatment record.
type Incident struct {
	ID              string         `json:"id"`
	PatientID       string         `json:"patientId"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Comments        string         `json:"comments,omitempty"`
	AppointmentDate time.Time      `json:"appointmentDate"`
	Cost            float64        `json:"cost"`
	Status          IncidentStatus `json:"status"`
	Treatment       string         `json:"treatment,omitempty"`
	NextDate        *time.Time     `json:"nextDate,omitempty"`
	Attachments     []Attachment   `json:"attachments,omitempty"`
}

// Attachment is owned by exactly one incident. Ref is an opaque
// reference issued by the blob-storage collaborator.
type Attachment struct {
	Name string `json:"name"`
	Ref  string `json:"ref"`
}

// Normalize coerces fields at the repository boundary: cost must be a
// non-negative number (default 0) and status defaults to Scheduled.
func (i *Incident) Normalize() {
	if i.Cost < 0 || math.IsNaN(i.Cost) || math.IsInf(i.Cost, 0) {
		i.Cost = 0
	}
	switch i.Status {
	case StatusScheduled, StatusInProgress, StatusCompleted, StatusCancelled:
	default:
		i.Status = StatusScheduled
	}
}
