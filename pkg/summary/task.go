// Package summary holds the task orchestrator: one run logs in to the
// portal, gathers the balance and the reporting day's transactions, and mails
// the result. Any failure along the way is routed into a best-effort error
// notification instead of crashing the run.
package summary

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/campus-tools/ecard-notify/pkg/ecard"
	"github.com/campus-tools/ecard-notify/pkg/mail"
	"github.com/campus-tools/ecard-notify/pkg/metrics"
)

const errorSubject = "Campus card daily summary - error"

// PortalClient is the slice of ecard.Client the task needs.
type PortalClient interface {
	Login(ctx context.Context) error
	Balance(ctx context.Context) (decimal.Decimal, error)
	TodayBills(ctx context.Context) ([]ecard.Bill, time.Time, error)
}

// ClientFactory builds a fresh portal client. The portal session is
// cookie-based and lives only as long as one run, so every run gets its own
// client.
type ClientFactory func() PortalClient

type Task struct {
	newClient ClientFactory
	renderer  mail.Renderer
	sender    mail.Sender
	log       *zap.SugaredLogger

	// now is replaceable in tests.
	now func() time.Time
}

func NewTask(newClient ClientFactory, renderer mail.Renderer, sender mail.Sender, log *zap.SugaredLogger) *Task {
	return &Task{
		newClient: newClient,
		renderer:  renderer,
		sender:    sender,
		log:       log.Named("summary"),
		now:       time.Now,
	}
}

// report is what one successful gather produces.
type report struct {
	// balance is the formatted card balance, or "unknown" when the balance
	// query failed. A missing balance alone does not fail the run.
	balance    string
	bills      []ecard.Bill
	targetDate time.Time
}

// Run executes one notification cycle. It never panics and never returns:
// gather or compose failures are converted into an error notification through
// the same renderer and sender. A delivery failure on that error path is the
// terminal, unrecovered outcome of the run.
func (t *Task) Run(ctx context.Context) {
	t.log.Info("Summary task started")

	r, err := t.gather(ctx)
	if err == nil {
		err = t.sendSummary(r)
	}
	if err == nil {
		metrics.SummaryRuns.WithLabelValues("success").Inc()
		t.log.Info("Summary task done")
		return
	}

	metrics.SummaryRuns.WithLabelValues("failure").Inc()
	t.log.Errorw("Summary task failed", "error", err)
	t.sendErrorMail(err)
}

func (t *Task) gather(ctx context.Context) (report, error) {
	client := t.newClient()

	if err := client.Login(ctx); err != nil {
		// Unrecoverable for this run; skip the queries entirely.
		return report{}, fmt.Errorf("Login failed: %w", err)
	}

	balance := "unknown"
	if bal, err := client.Balance(ctx); err != nil {
		t.log.Warnw("Balance unavailable, reporting unknown", "error", err)
	} else {
		balance = bal.StringFixed(2)
	}

	bills, targetDate, err := client.TodayBills(ctx)
	if err != nil {
		return report{}, fmt.Errorf("fetching transactions: %w", err)
	}

	return report{balance: balance, bills: bills, targetDate: targetDate}, nil
}

func (t *Task) sendSummary(r report) error {
	date := r.targetDate.Format("2006-01-02")
	subject := fmt.Sprintf("Campus card transactions for %s", date)

	body, err := t.renderer.Render(mail.TemplateSummary, map[string]any{
		"date":    date,
		"time":    t.now().Format(ecard.TimeLayout),
		"balance": r.balance,
		"bills":   r.bills,
	})
	if err != nil {
		return fmt.Errorf("rendering summary: %w", err)
	}

	if err := t.sender.Send(subject, body); err != nil {
		// The summary was produced; a delivery failure here is logged but
		// must not push the run into the error-notification path, which
		// would just fail against the same relay.
		t.log.Errorw("Failed to deliver summary mail", "error", err)
	}
	return nil
}

func (t *Task) sendErrorMail(runErr error) {
	body, err := t.renderer.Render(mail.TemplateError, map[string]any{
		"error": fmt.Sprintf("%+v", runErr),
	})
	if err != nil {
		t.log.Errorw("Failed to render error mail", "error", err)
		return
	}

	if err := t.sender.Send(errorSubject, body); err != nil {
		t.log.Errorw("Failed to deliver error mail", "error", err)
	}
}
