package invoice

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/rgtechno/tallybridge/internal/models"
	"github.com/rgtechno/tallybridge/internal/notify"
	"github.com/rgtechno/tallybridge/internal/repository"
	"github.com/rgtechno/tallybridge/internal/storage"
	"github.com/rgtechno/tallybridge/internal/tally"
)

const postTimeout = 60 * time.Second

// Poster posts a rendered voucher envelope to the remote system.
type Poster interface {
	Import(ctx context.Context, payload string, timeout time.Duration) (string, error)
}

// Pipeline posts an order's invoice at finalization time. A failed post
// queues the exact rendered payload for replay; it never unwinds the order.
type Pipeline struct {
	orders      *repository.OrderRepository
	invoices    *repository.InvoiceRepository
	ledgerNames *repository.LedgerNameRepository
	poster      Poster
	uploader    storage.Uploader
	notifier    notify.Notifier
	sellerState string
	company     string
	log         *logrus.Logger
}

func NewPipeline(
	orders *repository.OrderRepository,
	invoices *repository.InvoiceRepository,
	ledgerNames *repository.LedgerNameRepository,
	poster Poster,
	uploader storage.Uploader,
	notifier notify.Notifier,
	sellerState, company string,
	log *logrus.Logger,
) *Pipeline {
	return &Pipeline{
		orders:      orders,
		invoices:    invoices,
		ledgerNames: ledgerNames,
		poster:      poster,
		uploader:    uploader,
		notifier:    notifier,
		sellerState: sellerState,
		company:     company,
		log:         log,
	}
}

// PostOrderInvoice renders and posts the invoice for one order. On a marker
// or transport failure the payload is stored as a pending invoice and the
// post error is returned; the caller decides whether that fails its own
// operation.
func (p *Pipeline) PostOrderInvoice(ctx context.Context, orderID string) error {
	order, err := p.orders.GetWithItems(ctx, orderID)
	if err != nil {
		return err
	}
	if order == nil {
		return fmt.Errorf("order %s not found", orderID)
	}

	settings, err := p.ledgerNames.Map(ctx)
	if err != nil {
		return err
	}
	names := tally.ResolveLedgerNames(settings)

	xml, err := tally.RenderInvoice(*order, order.Items, p.sellerState, p.company, names, time.Now())
	if err != nil {
		return err
	}

	if _, err := p.poster.Import(ctx, xml, postTimeout); err != nil {
		p.log.WithFields(logrus.Fields{
			"order_no": order.OrderNo,
		}).WithError(err).Warn("invoice post failed, queueing for retry")

		if _, qErr := p.invoices.Create(ctx, models.PendingInvoice{
			OrderID:    order.ID,
			UserID:     order.UserID,
			XMLContent: xml,
		}); qErr != nil {
			return fmt.Errorf("queue invoice for order %s: %w", order.OrderNo, qErr)
		}

		if nErr := p.notifier.Publish(ctx, notify.Event{
			Type:   notify.EventInvoiceQueued,
			Detail: map[string]string{"order_no": order.OrderNo},
		}); nErr != nil {
			p.log.WithError(nErr).Warn("failed to publish invoice queued event")
		}
		return err
	}

	p.archive(ctx, order.OrderNo, xml)

	if nErr := p.notifier.Publish(ctx, notify.Event{
		Type:   notify.EventOrderInvoiced,
		Detail: map[string]string{"order_no": order.OrderNo},
	}); nErr != nil {
		p.log.WithError(nErr).Warn("failed to publish order invoiced event")
	}
	return nil
}

// archive keeps a copy of the accepted payload; failures only log.
func (p *Pipeline) archive(ctx context.Context, orderNo, xml string) {
	object := fmt.Sprintf("invoices/%s.xml", orderNo)
	url, err := p.uploader.Upload(ctx, object, []byte(xml), "application/xml")
	if err != nil {
		p.log.WithField("order_no", orderNo).WithError(err).Warn("invoice archive failed")
		return
	}
	if url != "" {
		p.log.WithFields(logrus.Fields{"order_no": orderNo, "url": url}).Debug("invoice archived")
	}
}
