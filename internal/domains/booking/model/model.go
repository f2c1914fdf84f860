package model

import (
	"purohit/shared/task"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID               = "id"
	FieldBookingReference = "booking_reference"
	FieldUserID           = "user_id"
	FieldName             = "name"
	FieldEmail            = "email"
	FieldPhone            = "phone"
	FieldPoojaType        = "pooja_type"
	FieldDate             = "date"
	FieldTime             = "time"
	FieldLocation         = "location"
	FieldSpecialRequests  = "special_requests"
	FieldStatus           = "status"
	FieldCreatedAt        = "created_at"
	FieldUpdatedAt        = "updated_at"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusExpired   Status = "expired"
)

const (
	DefaultPoojaType = "General Pooja"
	DefaultLocation  = "Not specified"
	unknownReference = "UNKNOWN"
)

var statusLabels = map[Status]string{
	StatusPending:   "Pending Confirmation",
	StatusConfirmed: "Confirmed",
	StatusCancelled: "Cancelled",
	StatusCompleted: "Completed",
	StatusExpired:   "Expired",
}

// Label is the display text for a status. Unrecognised values read "Unknown".
func (s Status) Label() string {
	if label, ok := statusLabels[s]; ok {
		return label
	}

	return "Unknown"
}

// Final statuses no longer accept edits.
func (s Status) Final() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Settable reports whether s may be written through a status update.
func (s Status) Settable() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted:
		return true
	default:
		return false
	}
}

// PoojaCatalog lists the services that can be booked.
var PoojaCatalog = []string{
	"Griha Pravesh",
	"Satyanarayan Puja",
	"Lakshmi Puja",
	"Durga Puja",
	"Navagraha Shanti",
	"Mundan Sanskar",
	"Marriage Rituals",
	"Vastu Shanti",
}

// Booking is a row as stored. Optional columns are pointers because rows
// written by older clients may leave them empty.
type Booking struct {
	ID               string     `db:"id"`
	BookingReference *string    `db:"booking_reference"`
	UserID           *string    `db:"user_id"`
	Name             string     `db:"name"`
	Email            string     `db:"email"`
	Phone            string     `db:"phone"`
	PoojaType        *string    `db:"pooja_type"`
	Date             *string    `db:"date"`
	Time             *string    `db:"time"`
	Location         *string    `db:"location"`
	SpecialRequests  *string    `db:"special_requests"`
	Status           *string    `db:"status"`
	CreatedAt        *time.Time `db:"created_at"`
	UpdatedAt        *time.Time `db:"updated_at"`
}

// Record is a fully populated booking. Every read goes through Normalize.
type Record struct {
	ID               string
	BookingReference string
	UserID           string
	Name             string
	Email            string
	Phone            string
	PoojaType        string
	Date             string
	Time             string
	Location         string
	SpecialRequests  string
	Status           Status
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Normalize back-fills absent or blank fields with their documented defaults.
// now stands in for both timestamps when neither was stored.
func (b Booking) Normalize(referencePrefix string, now time.Time) Record {
	record := Record{
		ID:               b.ID,
		BookingReference: orDefault(b.BookingReference, referencePrefix+unknownReference),
		UserID:           orDefault(b.UserID, ""),
		Name:             b.Name,
		Email:            b.Email,
		Phone:            b.Phone,
		PoojaType:        orDefault(b.PoojaType, DefaultPoojaType),
		Date:             orDefault(b.Date, ""),
		Time:             orDefault(b.Time, ""),
		Location:         orDefault(b.Location, DefaultLocation),
		SpecialRequests:  orDefault(b.SpecialRequests, ""),
		Status:           Status(orDefault(b.Status, string(StatusPending))),
	}

	switch {
	case b.CreatedAt != nil:
		record.CreatedAt = *b.CreatedAt
	case b.UpdatedAt != nil:
		record.CreatedAt = *b.UpdatedAt
	default:
		record.CreatedAt = now
	}

	record.UpdatedAt = record.CreatedAt
	if b.UpdatedAt != nil {
		record.UpdatedAt = *b.UpdatedAt
	}

	return record
}

func orDefault(value *string, fallback string) string {
	if value == nil || *value == "" {
		return fallback
	}

	return *value
}

// StatusUpdate is the only mutation a stored booking accepts.
type StatusUpdate struct {
	Status string `db:"status"`
}

type ChangeKind string

const (
	ChangeCreated       ChangeKind = "created"
	ChangeStatusUpdated ChangeKind = "status_updated"
)

// ChangeEvent is published on every write so live views can re-query.
type ChangeEvent struct {
	ID     string     `json:"id"`
	UserID string     `json:"user_id,omitempty"`
	Kind   ChangeKind `json:"kind"`
}

// PipelineState tracks a submission through validation and storage.
type PipelineState string

const (
	StateIdle       PipelineState = "idle"
	StateValidating PipelineState = "validating"
	StateInvalid    PipelineState = "invalid"
	StatePersisting PipelineState = "persisting"
	StatePersisted  PipelineState = "persisted"
	StateFailed     PipelineState = "failed"
	StateDone       PipelineState = "done"
)

// Submission is the outcome of one Submit call. Chat and Email are nil
// unless the booking was stored.
type Submission struct {
	State  PipelineState
	Record Record
	Chat   *task.Task
	Email  *task.Task
}

// Scope selects which bookings a list view covers.
type Scope string

const (
	ScopeMine Scope = "mine"
	ScopeAll  Scope = "all"
)

// Actor is whoever asks for a status change.
type Actor struct {
	UserID string
	Admin  bool
}
