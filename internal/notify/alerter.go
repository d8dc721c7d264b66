// Package notify alerts operators about noteworthy allocation plans over one
// or more channels (Telegram, Discord). A plan is noteworthy when its
// aggregate ROI clears the configured threshold.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/skincraft/tradeupbot/internal/domain"
)

// Sender is the interface that each notification channel must implement.
type Sender interface {
	// Send delivers a notification with the given title and message body.
	Send(ctx context.Context, title, message string) error
	// Name returns a human-readable identifier for the sender (e.g. "telegram").
	Name() string
}

// PlanAlerter watches for high-ROI allocation plans and fans an alert out to
// all registered senders. A single sender failure does not prevent delivery
// to the remaining senders.
type PlanAlerter struct {
	senders []Sender
	minROI  float64
	logger  *slog.Logger
}

// NewPlanAlerter creates an alerter that fires for plans whose TotalROI is at
// least minROI.
func NewPlanAlerter(senders []Sender, minROI float64, logger *slog.Logger) *PlanAlerter {
	return &PlanAlerter{
		senders: senders,
		minROI:  minROI,
		logger:  logger.With(slog.String("component", "plan_alerter")),
	}
}

// PlanFound reports a freshly computed plan. Plans below the ROI threshold
// are dropped silently.
func (a *PlanAlerter) PlanFound(ctx context.Context, plan domain.AllocationPlan) error {
	roi := plan.TotalROI()
	if roi < a.minROI {
		a.logger.DebugContext(ctx, "plan below alert threshold",
			slog.String("plan_id", plan.ID),
			slog.Float64("roi", roi),
		)
		return nil
	}

	title := fmt.Sprintf("Trade-up plan %.1f%% ROI", roi*100)
	message := formatPlan(plan)
	return a.dispatch(ctx, title, message)
}

// dispatch iterates over all senders and sends the notification. Errors from
// individual senders are collected and returned as a combined error.
func (a *PlanAlerter) dispatch(ctx context.Context, title, message string) error {
	if len(a.senders) == 0 {
		return nil
	}

	var errs []string
	for _, s := range a.senders {
		if err := s.Send(ctx, title, message); err != nil {
			a.logger.ErrorContext(ctx, "sender failed",
				slog.String("sender", s.Name()),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Sprintf("%s: %v", s.Name(), err))
		} else {
			a.logger.DebugContext(ctx, "alert sent",
				slog.String("sender", s.Name()),
				slog.String("title", title),
			)
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notify: %d sender(s) failed: %s", len(errs), strings.Join(errs, "; "))
	}
	return nil
}

// formatPlan renders a compact multi-line summary: aggregates first, then one
// line per recipe with its top outcome.
func formatPlan(plan domain.AllocationPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan %s\nEV %.2f, cost %.2f, %d recipes\n",
		plan.ID, plan.TotalEV, plan.TotalCost, len(plan.Recipes))

	for i, pr := range plan.Recipes {
		line := fmt.Sprintf("#%d tier %d: EV %.2f, cost %.2f",
			i+1, pr.Recipe.Tier, pr.Result.EV, pr.Result.Cost)
		if len(pr.Result.Outcomes) > 0 {
			top := pr.Result.Outcomes[0]
			line += fmt.Sprintf(" (top: %s %.0f%%)", top.Entry.Name, top.Probability*100)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}
