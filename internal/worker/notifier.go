package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"cloud.google.com/go/civil"

	"claimcountdown.app/server/common/logger"
	"claimcountdown.app/server/internal/cache"
	"claimcountdown.app/server/internal/deadline"
	"claimcountdown.app/server/internal/digest"
	"claimcountdown.app/server/internal/mailer"
	"claimcountdown.app/server/internal/model"
	"claimcountdown.app/server/internal/store"
)

// Mirrors the read side of service.StoreProvider the notifier needs.
type StoreProvider interface {
	Digests() store.DigestStore
	Claims(scope store.Scope) store.ClaimStore
}

type RunSummary struct {
	Frequency  model.AlertFrequency
	Recipients int
	Sent       int
	Skipped    int
	Failed     int
}

// Notifier sends one scheduled digest run. A failure for one recipient is
// logged and counted; the run moves on to the next.
type Notifier struct {
	stores  StoreProvider
	builder *digest.Builder
	mailer  mailer.Mailer
	ledger  cache.Ledger
	now     func() time.Time
}

func NewNotifier(stores StoreProvider, builder *digest.Builder, m mailer.Mailer, ledger cache.Ledger, now func() time.Time) *Notifier {
	if ledger == nil {
		ledger = cache.NoopLedger{}
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{
		stores:  stores,
		builder: builder,
		mailer:  m,
		ledger:  ledger,
		now:     now,
	}
}

func (n *Notifier) RunOnce(ctx context.Context, freq model.AlertFrequency) (RunSummary, error) {
	summary := RunSummary{Frequency: freq}
	if !freq.IsValid() {
		return summary, fmt.Errorf("unknown alert frequency %q", freq)
	}

	frequency := string(freq)
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "claimcountdown.worker.notifier",
		Frequency: &frequency,
	})

	sc := logger.StartSpan(ctx, "notifier.run")
	defer sc.End()
	ctx = sc.Context()

	now := n.now()
	today := deadline.Today(now)
	period := cache.Period(freq, now)
	start := time.Now()

	recipients, err := n.stores.Digests().ListRecipients(ctx, freq, today)
	if err != nil {
		sc.RecordError(err)
		return summary, fmt.Errorf("listing digest recipients: %w", err)
	}
	summary.Recipients = len(recipients)

	slog.InfoContext(ctx, "digest run started",
		"recipients", len(recipients),
		"period", period)

	// Recipients arrive grouped by organization; each org's claims are read once.
	atRisk := make(map[int64][]model.Claim)
	for _, r := range recipients {
		if ctx.Err() != nil {
			break
		}

		claims, ok := atRisk[r.OrganizationID]
		if !ok {
			claims, err = n.listAtRisk(ctx, r.OrganizationID, today)
			if err != nil {
				slog.ErrorContext(ctx, "loading at-risk claims failed",
					"organization_id", r.OrganizationID,
					"error", err)
				summary.Failed++
				continue
			}
			atRisk[r.OrganizationID] = claims
		}

		switch n.deliver(ctx, freq, period, r, claims) {
		case deliverySent:
			summary.Sent++
		case deliverySkipped:
			summary.Skipped++
		default:
			summary.Failed++
		}
	}

	slog.InfoContext(ctx, "digest run finished",
		"recipients", summary.Recipients,
		"sent", summary.Sent,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
		"duration_ms", time.Since(start).Milliseconds())

	return summary, ctx.Err()
}

type delivery int

const (
	deliveryFailed delivery = iota
	deliverySent
	deliverySkipped
)

func (n *Notifier) deliver(ctx context.Context, freq model.AlertFrequency, period string, r model.DigestRecipient, claims []model.Claim) delivery {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		UserID:         &r.UserID,
		OrganizationID: &r.OrganizationID,
	})

	if len(claims) == 0 {
		slog.DebugContext(ctx, "no at-risk claims, skipping recipient")
		return deliverySkipped
	}

	sc := logger.StartSpan(ctx, "notifier.deliver")
	defer sc.End()
	ctx = sc.Context()

	reserved, err := n.ledger.Reserve(ctx, freq, period, r.UserID)
	switch {
	case err != nil:
		// Without the ledger a repeated trigger may send twice; a missed digest is worse.
		slog.WarnContext(ctx, "digest ledger unavailable, sending anyway", "error", err)
	case !reserved:
		slog.InfoContext(ctx, "digest already sent this period", "period", period)
		return deliverySkipped
	}

	content, err := n.builder.AtRisk(freq, claims)
	if err != nil {
		sc.RecordError(err)
		n.release(ctx, freq, period, r.UserID)
		slog.ErrorContext(ctx, "building digest failed", "error", err)
		return deliveryFailed
	}

	err = n.mailer.Send(ctx, mailer.Message{
		To:      r.Email,
		Subject: content.Subject,
		HTML:    content.HTML,
		Text:    content.Text,
	})
	if err != nil {
		sc.RecordError(err)
		n.release(ctx, freq, period, r.UserID)
		slog.ErrorContext(ctx, "sending digest failed",
			"to", logger.MaskEmail(r.Email),
			"error", err)
		return deliveryFailed
	}

	slog.InfoContext(ctx, "digest sent",
		"to", logger.MaskEmail(r.Email),
		"claims", len(claims))
	return deliverySent
}

func (n *Notifier) listAtRisk(ctx context.Context, orgID int64, today civil.Date) ([]model.Claim, error) {
	scope, err := store.NewScope(orgID)
	if err != nil {
		return nil, err
	}
	return n.stores.Claims(scope).ListAtRisk(ctx, today)
}

func (n *Notifier) release(ctx context.Context, freq model.AlertFrequency, period string, userID int64) {
	if err := n.ledger.Release(ctx, freq, period, userID); err != nil {
		slog.WarnContext(ctx, "releasing digest slot failed", "error", err)
	}
}
