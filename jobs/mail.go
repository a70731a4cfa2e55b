package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/atlas-stays/atlas-stays/internal/mailer"
)

// MailJob renders and delivers queued email tasks.
type MailJob struct {
	Mailer *mailer.Mailer
	Logger *slog.Logger
}

// NewMailJob wires dependencies for the mail handlers.
func NewMailJob(m *mailer.Mailer, logger *slog.Logger) *MailJob {
	return &MailJob{Mailer: m, Logger: logger}
}

// HandleSendEmail processes TaskTypeSendEmail tasks.
func (j *MailJob) HandleSendEmail(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Mailer == nil {
		return errors.New("mail job: handler not configured")
	}
	var payload SendEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if err := j.Mailer.Send(payload.To, payload.Subject, payload.Body); err != nil {
		j.Logger.Error("send email", slog.String("to", payload.To), slog.Any("error", err))
		return err
	}
	return nil
}

// HandleReservationConfirmation processes confirmation-email tasks.
func (j *MailJob) HandleReservationConfirmation(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Mailer == nil {
		return errors.New("mail job: handler not configured")
	}
	var payload ReservationConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	subject := fmt.Sprintf("Your Atlas Stays reservation #%d", payload.ReservationID)
	body := fmt.Sprintf(
		"Hi,\r\n\r\nWe received your reservation for %s.\r\n\r\n"+
			"Guests: %d\r\nTotal: %s\r\nStatus: %s\r\n\r\n"+
			"You will hear from us as soon as your booking is confirmed.\r\n\r\n"+
			"Atlas Stays",
		payload.TripName,
		payload.Guests,
		j.Mailer.FormatAmount(payload.TotalPrice),
		payload.Status,
	)

	if err := j.Mailer.Send(payload.To, subject, body); err != nil {
		j.Logger.Error("send confirmation email",
			slog.Int64("reservation_id", payload.ReservationID),
			slog.Any("error", err))
		return err
	}
	j.Logger.Info("confirmation email sent", slog.Int64("reservation_id", payload.ReservationID))
	return nil
}
