package notify

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// BatchSize is the number of BCC recipients per provider call.
	BatchSize = 50
	// maxAttempts bounds the per-batch retry loop.
	maxAttempts = 3

	defaultBackoff = 500 * time.Millisecond
)

// ErrEmptyRecipients means dispatch was requested with nothing to send to.
var ErrEmptyRecipients = errors.New("recipient list is empty")

// Provider sends one message to a set of BCC recipients.
type Provider interface {
	SendBCC(ctx context.Context, bcc []string, subject, html string) error
}

// Result is the partial-success accounting of a dispatch run. It is
// meaningful on failure too: Sent/Batches report what went out before
// the run stopped.
type Result struct {
	Sent    int `json:"sent"`
	Batches int `json:"batches"`
}

// DownstreamError wraps a provider failure together with the batches
// that had already been delivered. Emails cannot be unsent, so callers
// must be told about the partial delivery.
type DownstreamError struct {
	Result Result
	Batch  int // 1-based index of the failed batch
	Err    error
}

func (e *DownstreamError) Error() string {
	return fmt.Sprintf("batch %d failed after %d recipients sent: %v", e.Batch, e.Result.Sent, e.Err)
}

func (e *DownstreamError) Unwrap() error { return e.Err }

// Dispatcher fans one message out to many recipients in fixed-size
// BCC batches, strictly in order.
type Dispatcher struct {
	provider Provider
	log      *zap.Logger
	backoff  time.Duration
}

func NewDispatcher(provider Provider, log *zap.Logger) *Dispatcher {
	return &Dispatcher{provider: provider, log: log, backoff: defaultBackoff}
}

// Dispatch partitions emails into batches of BatchSize preserving order
// and sends them sequentially. Each batch is retried up to maxAttempts
// with exponential backoff; when a batch exhausts its retries the
// remaining batches are not attempted and a DownstreamError carrying
// the partial Result is returned.
func (d *Dispatcher) Dispatch(ctx context.Context, emails []string, subject, html string) (Result, error) {
	if len(emails) == 0 {
		return Result{}, ErrEmptyRecipients
	}

	var res Result
	for i := 0; i < len(emails); i += BatchSize {
		end := i + BatchSize
		if end > len(emails) {
			end = len(emails)
		}
		batch := emails[i:end]
		batchNo := res.Batches + 1

		if err := d.sendBatch(ctx, batch, subject, html); err != nil {
			d.log.Error("notification batch failed",
				zap.Int("batch", batchNo),
				zap.Int("sent_so_far", res.Sent),
				zap.Error(err))
			return res, &DownstreamError{Result: res, Batch: batchNo, Err: err}
		}

		res.Batches++
		res.Sent += len(batch)
	}

	d.log.Info("notification dispatched",
		zap.Int("recipients", res.Sent),
		zap.Int("batches", res.Batches))
	return res, nil
}

func (d *Dispatcher) sendBatch(ctx context.Context, batch []string, subject, html string) error {
	backoff := d.backoff
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		lastErr = d.provider.SendBCC(ctx, batch, subject, html)
		if lastErr == nil {
			return nil
		}
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return lastErr
}
