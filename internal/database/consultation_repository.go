package database

import (
	"fmt"
	"time"

	"github.com/fixitstudio/consultation-backend/internal/models"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ConsultationRepository handles consultation record persistence
type ConsultationRepository struct {
	db     DB
	logger *logrus.Logger
}

// NewConsultationRepository creates a new consultation repository
func NewConsultationRepository(db DB, logger *logrus.Logger) *ConsultationRepository {
	return &ConsultationRepository{
		db:     db,
		logger: logger,
	}
}

// Insert persists a consultation record and returns the stored row.
// There is no uniqueness constraint on payment_id: a replayed receipt
// creates a second row. Left as-is until duplicate handling is specified.
func (r *ConsultationRepository) Insert(record *models.Consultation) (*models.Consultation, error) {
	if record == nil {
		return nil, fmt.Errorf("consultation record cannot be nil")
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO consultations (
			id, name, email, phone, category,
			consultation_date, consultation_time, message,
			status, payment_id, payment_status, created_at
		) VALUES (
			$1, $2, $3, $4, $5,
			$6, $7, $8,
			$9, $10, $11, $12
		)
		RETURNING id, name, email, phone, category,
			consultation_date, consultation_time, message,
			status, payment_id, payment_status, created_at`

	var saved models.Consultation
	err := r.db.Get(&saved, query,
		record.ID, record.Name, record.Email, record.Phone, record.Category,
		record.ConsultationDate, record.ConsultationTime, record.Message,
		record.Status, record.PaymentID, record.PaymentStatus, record.CreatedAt,
	)
	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"email":      record.Email,
			"payment_id": record.PaymentID,
		}).Error("Failed to insert consultation")
		return nil, fmt.Errorf("failed to save consultation: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"consultation_id": saved.ID,
		"payment_id":      saved.PaymentID,
	}).Info("Consultation saved")

	return &saved, nil
}
