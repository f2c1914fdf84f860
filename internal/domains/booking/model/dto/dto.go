package dto

import (
	"purohit/internal/domains/booking/model"
	"purohit/shared/base64"
	"purohit/shared/constant"
	"purohit/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CreateBookingRequest is the submission draft. Field rules live in the
// booking validator; the tags below name them.
type CreateBookingRequest struct {
	Name            string `json:"name"             validate:"notblank,trimmed_min=3"`
	Email           string `json:"email"            validate:"notblank,email_format,not_disposable"`
	Phone           string `json:"phone"            validate:"notblank,phone_intl"`
	PoojaType       string `json:"pooja_type"       validate:"notblank,pooja_type"`
	Date            string `json:"date"             validate:"notblank,datetime=2006-01-02"`
	Time            string `json:"time"             validate:"notblank,datetime=15:04"`
	Location        string `json:"location"         validate:"notblank"`
	SpecialRequests string `json:"special_requests"`
}

func (c *CreateBookingRequest) ToModel(reference, userID string, now time.Time) model.Booking {
	status := string(model.StatusPending)
	poojaType := c.PoojaType
	date := c.Date
	clock := c.Time
	location := strings.TrimSpace(c.Location)

	booking := model.Booking{
		ID:               uuid.NewString(),
		BookingReference: &reference,
		Name:             strings.TrimSpace(c.Name),
		Email:            strings.TrimSpace(c.Email),
		Phone:            strings.TrimSpace(c.Phone),
		PoojaType:        &poojaType,
		Date:             &date,
		Time:             &clock,
		Location:         &location,
		Status:           &status,
		CreatedAt:        &now,
		UpdatedAt:        &now,
	}

	if userID != "" {
		booking.UserID = &userID
	}

	if requests := strings.TrimSpace(c.SpecialRequests); requests != "" {
		booking.SpecialRequests = &requests
	}

	return booking
}

// SubmissionResponse is returned as soon as the booking is stored.
type SubmissionResponse struct {
	BookingReference string `json:"booking_reference"`
	ID               string `json:"id"`
	Status           string `json:"status"`
}

type BookingResponse struct {
	ID               string `json:"id"`
	BookingReference string `json:"booking_reference"`
	UserID           string `json:"user_id,omitempty"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	PoojaType        string `json:"pooja_type"`
	Date             string `json:"date"`
	Time             string `json:"time"`
	Location         string `json:"location"`
	SpecialRequests  string `json:"special_requests"`
	Status           string `json:"status"`
	StatusLabel      string `json:"status_label"`
	Editable         bool   `json:"editable"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

func (r *BookingResponse) FromRecord(record model.Record) {
	r.ID = record.ID
	r.BookingReference = record.BookingReference
	r.UserID = record.UserID
	r.Name = record.Name
	r.Email = record.Email
	r.Phone = record.Phone
	r.PoojaType = record.PoojaType
	r.Date = record.Date
	r.Time = record.Time
	r.Location = record.Location
	r.SpecialRequests = record.SpecialRequests
	r.Status = string(record.Status)
	r.StatusLabel = record.Status.Label()
	r.Editable = !record.Status.Final()
	r.CreatedAt = timezone.Format(record.CreatedAt, constant.DateFormat)
	r.UpdatedAt = timezone.Format(record.UpdatedAt, constant.DateFormat)
}

type GetBookingsResponse struct {
	Bookings   []BookingResponse `json:"bookings"`
	NextCursor string            `json:"next_cursor,omitempty"`
	HasMore    bool              `json:"has_more"`
}

func (r *GetBookingsResponse) FromRecords(records []model.Record, hasMore bool) {
	r.Bookings = make([]BookingResponse, len(records))
	for i, record := range records {
		r.Bookings[i].FromRecord(record)
	}

	r.HasMore = hasMore

	if hasMore && len(records) > 0 {
		r.NextCursor = CursorAfter(records[len(records)-1]).Encode()
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

// Cursor marks the last item of a page in created_at DESC, id DESC order.
type Cursor struct {
	CreatedAt time.Time `json:"c"`
	ID        string    `json:"i"`
}

func CursorAfter(record model.Record) Cursor {
	return Cursor{CreatedAt: record.CreatedAt, ID: record.ID}
}

func (c Cursor) Encode() string {
	token, err := base64.EncodeJSON(c)
	if err != nil {
		return ""
	}

	return token
}

func DecodeCursor(token string) (*Cursor, error) {
	if token == "" {
		return nil, nil //nolint:nilnil
	}

	var cursor Cursor
	if err := base64.DecodeJSON(token, &cursor); err != nil {
		return nil, err //nolint:wrapcheck
	}

	return &cursor, nil
}

const (
	CommandLoadMore     = "load_more"
	CommandUpdateStatus = "update_status"
)

// LiveCommand is a client frame on a live booking socket.
type LiveCommand struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	Status string `json:"status,omitempty"`
}
