package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeSendEmail is the task type for generic transactional emails.
	TaskTypeSendEmail = "mail:send"
	// TaskTypeReservationConfirmation is the task type for booking
	// confirmation emails.
	TaskTypeReservationConfirmation = "mail:reservation_confirmation"
	// TaskTypeDashboardWarmup is the task type that precomputes dashboard
	// aggregates into the cache.
	TaskTypeDashboardWarmup = "dashboard:warmup"
)

// SendEmailPayload describes a fully rendered email.
type SendEmailPayload struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ReservationConfirmationPayload carries the facts the confirmation
// template needs. The body is rendered worker-side so the HTTP path never
// touches SMTP formatting.
type ReservationConfirmationPayload struct {
	To            string  `json:"to"`
	TripName      string  `json:"trip_name"`
	ReservationID int64   `json:"reservation_id"`
	Guests        int     `json:"guests"`
	TotalPrice    float64 `json:"total_price"`
	Status        string  `json:"status"`
}

// NewSendEmailTask constructs an Asynq task for a rendered email.
func NewSendEmailTask(payload SendEmailPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeSendEmail, data), nil
}

// NewReservationConfirmationTask constructs a confirmation-email task.
func NewReservationConfirmationTask(payload ReservationConfirmationPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeReservationConfirmation, data), nil
}

// NewDashboardWarmupTask constructs a warmup task. The payload is empty;
// the handler recomputes every dashboard key.
func NewDashboardWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskTypeDashboardWarmup, nil)
}
