package orchestrators

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"anklebreaker/internal/adapters/storage/sessionstore"
	"anklebreaker/internal/domain/session"
)

// SetFeeInput carries one file's price entry.
type SetFeeInput struct {
	Session *session.Session
	FileID  string
	Price   decimal.Decimal
}

// SetFeeResult reports whether the schedule is now complete.
type SetFeeResult struct {
	ScheduleComplete bool
}

// SetFeeDeps holds external dependencies for fee entry.
type SetFeeDeps struct {
	SessionStore sessionstore.Store
	Notifier     Notifier
}

// ExecuteSetFee sets one file's per-registrant price and persists metadata.
// PRE: Price is non-negative and FileID names a file in the session.
// POST: Stale schedule keys are pruned; ScheduleComplete reports whether
// every file now has a price.
func ExecuteSetFee(ctx context.Context, input SetFeeInput, deps SetFeeDeps) (SetFeeResult, error) {
	f, err := input.Session.FileByID(input.FileID)
	if err != nil {
		return SetFeeResult{}, err
	}
	if err := input.Session.Fees.Set(f.ID, input.Price); err != nil {
		return SetFeeResult{}, err
	}
	input.Session.Fees.Prune(input.Session.Files)

	if err := deps.SessionStore.WriteMetadata(ctx, input.Session); err != nil {
		return SetFeeResult{}, err
	}

	deps.Notifier.DataChanged()
	slog.Info("fee_set",
		"folder", input.Session.FolderName,
		"file", f.BaseName,
		"price", input.Price.String(),
	)
	return SetFeeResult{ScheduleComplete: input.Session.Fees.Complete(input.Session.Files)}, nil
}
