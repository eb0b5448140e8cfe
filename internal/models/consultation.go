package models

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Validation errors for consultation submissions
var (
	// ErrMissingFields indicates one or more required booking fields are empty
	ErrMissingFields = errors.New("all fields are required: name, email, phone, projectType, consultationDate, consultationTime, message")

	// ErrInvalidEmail indicates the email does not match a basic address shape
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrInvalidDate indicates the consultation date is not YYYY-MM-DD
	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")
)

// Consultation lifecycle statuses. Records are created as pending and moved
// on by back-office processes.
const (
	ConsultationStatusPending = "pending"
	PaymentStatusPaid         = "paid"
)

var (
	emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	dateRegex  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ConsultationRequest is the submission payload: the booking fields plus the
// Razorpay payment receipt produced by the checkout widget.
type ConsultationRequest struct {
	Name             string `json:"name"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	ProjectType      string `json:"projectType"`
	ConsultationDate string `json:"consultationDate"`
	ConsultationTime string `json:"consultationTime"`
	Message          string `json:"message"`

	// Payment receipt fields
	RazorpayOrderID   string `json:"razorpay_order_id"`
	RazorpayPaymentID string `json:"razorpay_payment_id"`
	RazorpaySignature string `json:"razorpay_signature"`
}

// Validate checks the booking fields. Payment receipt fields are checked
// separately so a missing payment gets its own response status.
func (r *ConsultationRequest) Validate() error {
	if r.Name == "" || r.Email == "" || r.Phone == "" || r.ProjectType == "" ||
		r.ConsultationDate == "" || r.ConsultationTime == "" || r.Message == "" {
		return ErrMissingFields
	}

	if !emailRegex.MatchString(r.Email) {
		return ErrInvalidEmail
	}

	if !dateRegex.MatchString(r.ConsultationDate) {
		return ErrInvalidDate
	}

	return nil
}

// HasPaymentFields reports whether the full payment receipt is present.
func (r *ConsultationRequest) HasPaymentFields() bool {
	return r.RazorpayOrderID != "" && r.RazorpayPaymentID != "" && r.RazorpaySignature != ""
}

// ToRecord builds the persistable record from a request that passed both
// validation and signature verification. Strings are trimmed and the email
// lower-cased.
func (r *ConsultationRequest) ToRecord() *Consultation {
	return &Consultation{
		Name:             strings.TrimSpace(r.Name),
		Email:            strings.ToLower(strings.TrimSpace(r.Email)),
		Phone:            strings.TrimSpace(r.Phone),
		Category:         r.ProjectType,
		ConsultationDate: r.ConsultationDate,
		ConsultationTime: r.ConsultationTime,
		Message:          strings.TrimSpace(r.Message),
		Status:           ConsultationStatusPending,
		PaymentID:        r.RazorpayPaymentID,
		PaymentStatus:    PaymentStatusPaid,
	}
}

// Consultation represents a persisted consultation booking (consultations table)
type Consultation struct {
	ID               uuid.UUID `json:"id" db:"id"`
	Name             string    `json:"name" db:"name"`
	Email            string    `json:"email" db:"email"`
	Phone            string    `json:"phone" db:"phone"`
	Category         string    `json:"category" db:"category"`
	ConsultationDate string    `json:"consultation_date" db:"consultation_date"`
	ConsultationTime string    `json:"consultation_time" db:"consultation_time"`
	Message          string    `json:"message" db:"message"`
	Status           string    `json:"status" db:"status"`
	PaymentID        string    `json:"payment_id" db:"payment_id"`
	PaymentStatus    string    `json:"payment_status" db:"payment_status"`
	CreatedAt        time.Time `json:"created_at" db:"created_at"`
}
