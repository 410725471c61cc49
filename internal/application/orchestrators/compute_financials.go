package orchestrators

import (
	"context"
	"log/slog"

	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/finance"
	"anklebreaker/internal/domain/session"
)

// ComputeFinancialsInput selects the session and presentation grouping.
type ComputeFinancialsInput struct {
	Session  *session.Session
	Grouping finance.Grouping
}

// ComputeFinancialsResult carries the payout breakdown. Groups is populated
// only for the by-tier grouping; grand totals are identical either way.
type ComputeFinancialsResult struct {
	Breakdown finance.Breakdown
	Groups    []finance.TierGroup
}

// ComputeFinancialsDeps holds external dependencies for the computation.
type ComputeFinancialsDeps struct {
	SessionStore sessionstore.Store
}

// ExecuteComputeFinancials derives the payout breakdown from finalized
// statuses and the fee schedule, and persists the net total to session
// metadata. Grouping affects sub-totaling only, never per-file numbers.
// POST: Breakdown.ScheduleIncomplete is set when any file has no price;
// unpriced files contribute zero rather than erroring.
func ExecuteComputeFinancials(ctx context.Context, input ComputeFinancialsInput, deps ComputeFinancialsDeps) (ComputeFinancialsResult, error) {
	breakdown := finance.Compute(input.Session)

	result := ComputeFinancialsResult{Breakdown: breakdown}
	if input.Grouping == finance.GroupingByTier {
		result.Groups = finance.GroupByTier(breakdown.PerFile)
	}

	input.Session.NetToClub = breakdown.Totals.Net
	if err := deps.SessionStore.WriteMetadata(ctx, input.Session); err != nil {
		return result, err
	}

	slog.Info("financials_computed",
		"folder", input.Session.FolderName,
		"files", len(breakdown.PerFile),
		"net", breakdown.Totals.Net.StringFixed(2),
		"schedule_incomplete", breakdown.ScheduleIncomplete,
	)
	return result, nil
}
