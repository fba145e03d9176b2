package usecase

import (
	"context"
	"log/slog"

	"github.com/stanionascu/lemmy/internal/domain"
)

// Processor is the inbound entry point. It deduplicates by activity
// id, then verifies and applies in one pass.
type Processor struct {
	verifier *Verifier
	applier  *Applier
	dedup    DedupStore
	log      *slog.Logger
}

func NewProcessor(verifier *Verifier, applier *Applier, dedup DedupStore, log *slog.Logger) *Processor {
	return &Processor{
		verifier: verifier,
		applier:  applier,
		dedup:    dedup,
		log:      log,
	}
}

// Receive processes one delivered activity. An already-seen id is a
// silent success so that redelivery by a peer stays harmless.
func (p *Processor) Receive(ctx context.Context, act domain.Activity) error {
	ctx, span := tracer.Start(ctx, "Processor.Receive")
	defer span.End()

	seen, err := p.dedup.Seen(ctx, act.ID)
	if err != nil {
		p.log.Warn("dedup check failed", slog.String("module", "processor"), slog.String("activity", act.ID))
	} else if seen {
		return nil
	}

	if err := p.verifier.Verify(ctx, act, DefaultDepthBudget); err != nil {
		p.forget(ctx, act.ID)
		return err
	}
	if err := p.applier.Apply(ctx, act, DefaultDepthBudget); err != nil {
		p.forget(ctx, act.ID)
		return err
	}
	return nil
}

// forget releases the dedup reservation of a failed activity so a
// retry by the peer is processed instead of short-circuited.
func (p *Processor) forget(ctx context.Context, activityID string) {
	if err := p.dedup.Forget(ctx, activityID); err != nil {
		p.log.Warn("dedup release failed", slog.String("module", "processor"), slog.String("activity", activityID))
	}
}
