package worker

// order_completed_worker.go
// Runs after a work order reaches its target quantity:
//   1. Load the traveler data (header, summary, unit list)
//   2. Render the traveler PDF to PDF_STORAGE_PATH
//   3. Enqueue a notification email with the PDF attached (when configured)

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"shopfloor/internal/infra"
	"shopfloor/internal/service"

	"github.com/rs/zerolog/log"
)

// OrderCompletedPayload is the job envelope sent to QueueOrderCompleted.
type OrderCompletedPayload struct {
	OrderID uint `json:"order_id"`
}

// TravelerSource supplies the data printed on a traveler.
type TravelerSource interface {
	TravelerData(ctx context.Context, orderID uint) (*infra.TravelerData, error)
}

// EmailQueue accepts outgoing notification mail.
type EmailQueue interface {
	EnqueueEmail(ctx context.Context, payload EmailJobPayload) error
}

type OrderCompletedWorker struct {
	travelers      TravelerSource
	emails         EmailQueue
	pdfStoragePath string
	notifyEmail    string
}

func NewOrderCompletedWorker(travelers TravelerSource, emails EmailQueue, pdfStoragePath, notifyEmail string) *OrderCompletedWorker {
	return &OrderCompletedWorker{
		travelers:      travelers,
		emails:         emails,
		pdfStoragePath: pdfStoragePath,
		notifyEmail:    notifyEmail,
	}
}

func (w *OrderCompletedWorker) Process(ctx context.Context, raw json.RawMessage) error {
	var payload OrderCompletedPayload
	if err := json.Unmarshal(raw, &payload); err != nil || payload.OrderID == 0 {
		log.Error().Err(err).Str("payload", string(raw)).Msg("order_completed_worker: invalid payload")
		return nil
	}

	data, err := w.travelers.TravelerData(ctx, payload.OrderID)
	if errors.Is(err, service.ErrOrderNotFound) {
		log.Warn().Uint("order_id", payload.OrderID).Msg("order_completed_worker: order vanished, skipping")
		return nil
	}
	if err != nil {
		return fmt.Errorf("order_completed_worker: load order %d: %w", payload.OrderID, err)
	}

	path, err := infra.GenerateTravelerPDF(*data, w.pdfStoragePath)
	if err != nil {
		return fmt.Errorf("order_completed_worker: %w", err)
	}
	log.Info().Str("work_order_no", data.WorkOrderNo).Str("path", path).Msg("order_completed_worker: traveler generated")

	if w.notifyEmail == "" || w.emails == nil {
		return nil
	}
	mail := EmailJobPayload{
		ToEmail: w.notifyEmail,
		Subject: fmt.Sprintf("%s completed (%s)", data.WorkOrderNo, data.ProductCode),
		Body: fmt.Sprintf("Work order %s for %s completed: %d units, %d OK / %d NG, yield %s%%.",
			data.WorkOrderNo, data.ProductCode, data.CurrentQty, data.OKCount, data.NGCount, data.YieldPct.StringFixed(2)),
		AttachmentPath: path,
	}
	if err := w.emails.EnqueueEmail(ctx, mail); err != nil {
		return fmt.Errorf("order_completed_worker: enqueue email: %w", err)
	}
	return nil
}
