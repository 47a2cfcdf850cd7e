package invoice

import (
	"context"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/rgtechno/tallybridge/internal/models"
	"github.com/rgtechno/tallybridge/internal/notify"
	"github.com/rgtechno/tallybridge/internal/repository"
	syncpkg "github.com/rgtechno/tallybridge/internal/sync"
	"github.com/rgtechno/tallybridge/internal/tally"
)

const retrySyncType = "Invoices"

type RetryStatus string

const (
	RetrySuccess        RetryStatus = "success"
	RetryPartialSuccess RetryStatus = "partial_success"
	RetryError          RetryStatus = "error"
)

// RetryResult is the aggregate outcome of one replay run.
type RetryResult struct {
	Status    RetryStatus `json:"status"`
	Message   string      `json:"message"`
	Submitted int         `json:"submitted"`
	Remaining int         `json:"remaining"`
}

// Retrier replays queued invoices in submission order. A business rejection
// or transport failure halts the run; whatever was not submitted stays queued
// for the next one.
type Retrier struct {
	invoices *repository.InvoiceRepository
	logs     *repository.SyncLogRepository
	gate     *syncpkg.Gate
	poster   Poster
	notifier notify.Notifier
	log      *logrus.Logger
}

func NewRetrier(
	invoices *repository.InvoiceRepository,
	logs *repository.SyncLogRepository,
	gate *syncpkg.Gate,
	poster Poster,
	notifier notify.Notifier,
	log *logrus.Logger,
) *Retrier {
	return &Retrier{
		invoices: invoices,
		logs:     logs,
		gate:     gate,
		poster:   poster,
		notifier: notifier,
		log:      log,
	}
}

// RetryForUser replays one user's queue on the manual path.
func (r *Retrier) RetryForUser(ctx context.Context, userID string) (*RetryResult, error) {
	if err := r.gate.Allowed(ctx, models.ModuleOrders, syncpkg.TriggerManual); err != nil {
		return nil, err
	}
	pending, err := r.invoices.ListPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, pending)
}

// RetryAll replays every queue on the scheduled path.
func (r *Retrier) RetryAll(ctx context.Context) (*RetryResult, error) {
	if err := r.gate.Allowed(ctx, models.ModuleOrders, syncpkg.TriggerAuto); err != nil {
		return nil, err
	}
	pending, err := r.invoices.ListAllPending(ctx)
	if err != nil {
		return nil, err
	}
	return r.run(ctx, pending)
}

func (r *Retrier) run(ctx context.Context, pending []models.PendingInvoice) (*RetryResult, error) {
	if len(pending) == 0 {
		result := &RetryResult{Status: RetrySuccess, Message: "All data is up to date."}
		r.finish(ctx, result)
		return result, nil
	}

	result := &RetryResult{}
	for i, invoice := range pending {
		_, err := r.poster.Import(ctx, invoice.XMLContent, postTimeout)
		switch {
		case err == nil:
			if delErr := r.invoices.Delete(ctx, invoice.ID); delErr != nil {
				return nil, delErr
			}
			result.Submitted++
			continue
		case tally.IsBusinessError(err):
			// remote rejected the voucher; later invoices must not jump the queue
			result.Status = RetryPartialSuccess
			result.Message = "Some invoices could not be posted. Please log in to Tally or check sync logs for more details."
		default:
			result.Status = RetryError
			result.Message = "Please ensure Tally is open and accessible, then try again."
		}
		result.Remaining = len(pending) - i
		r.log.WithFields(logrus.Fields{
			"order_id":  invoice.OrderID,
			"submitted": result.Submitted,
			"remaining": result.Remaining,
		}).WithError(err).Warn("invoice retry halted")
		r.finish(ctx, result)
		return result, nil
	}

	result.Status = RetrySuccess
	result.Message = "All pending invoices have been successfully posted to Tally."
	r.finish(ctx, result)
	return result, nil
}

// finish appends the run's single audit row and publishes the outcome.
func (r *Retrier) finish(ctx context.Context, result *RetryResult) {
	status := models.SyncLogSuccess
	if result.Status != RetrySuccess {
		status = models.SyncLogFail
	}
	if err := r.logs.Append(ctx, retrySyncType, status); err != nil {
		r.log.WithError(err).Error("failed to append sync log")
	}

	if err := r.notifier.Publish(ctx, notify.Event{
		Type: notify.EventInvoiceRetried,
		Detail: map[string]string{
			"status":    string(result.Status),
			"submitted": strconv.Itoa(result.Submitted),
			"remaining": strconv.Itoa(result.Remaining),
		},
	}); err != nil {
		r.log.WithError(err).Warn("failed to publish retry event")
	}
}
