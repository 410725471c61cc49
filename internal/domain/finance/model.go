package finance

import (
	"github.com/shopspring/decimal"

	"anklebreaker/internal/domain/registrant"
	"anklebreaker/internal/domain/session"
)

// Fee constants. The platform takes a flat 10% commission on gross; the
// payment processor charges per transaction, tiered by ticket price with an
// inclusive $10 boundary.
var (
	platformRate = decimal.RequireFromString("0.10")

	lowTierCeiling = decimal.RequireFromString("10")
	lowTierRate    = decimal.RequireFromString("0.05")
	lowTierFlat    = decimal.RequireFromString("0.09")

	highTierRate = decimal.RequireFromString("0.0349")
	highTierFlat = decimal.RequireFromString("0.49")
)

// ProcessorFeePerUnit returns the processor charge for a single transaction
// at the given ticket price.
// POST: price <= 10 yields price*0.05 + 0.09, otherwise price*0.0349 + 0.49.
func ProcessorFeePerUnit(price decimal.Decimal) decimal.Decimal {
	if price.LessThanOrEqual(lowTierCeiling) {
		return price.Mul(lowTierRate).Add(lowTierFlat)
	}
	return price.Mul(highTierRate).Add(highTierFlat)
}

// FileBreakdown is the payout line for one source file.
type FileBreakdown struct {
	FileID       string
	FileName     string
	Price        decimal.Decimal
	Priced       bool // false when the fee schedule has no entry for the file
	RegularCount int
	ManualCount  int
	Gross        decimal.Decimal
	PlatformFee  decimal.Decimal
	ProcessorFee decimal.Decimal
	Net          decimal.Decimal
}

// Totals holds column-wise sums across files.
type Totals struct {
	Gross        decimal.Decimal
	PlatformFee  decimal.Decimal
	ProcessorFee decimal.Decimal
	Net          decimal.Decimal
}

// Add accumulates one file line into the totals.
func (t *Totals) Add(line FileBreakdown) {
	t.Gross = t.Gross.Add(line.Gross)
	t.PlatformFee = t.PlatformFee.Add(line.PlatformFee)
	t.ProcessorFee = t.ProcessorFee.Add(line.ProcessorFee)
	t.Net = t.Net.Add(line.Net)
}

// Breakdown is the full payout computation for a session.
type Breakdown struct {
	PerFile []FileBreakdown
	Totals  Totals

	// ScheduleIncomplete is true when at least one file has no price entry.
	// Unpriced files contribute zero, which is not an error, but callers use
	// this to block finalization.
	ScheduleIncomplete bool
}

// ComputeFile derives the payout line for one record set at the given price.
// The processor fee is a per-unit charge summed over regular registrations,
// never computed on the aggregate. No rounding happens here; values stay
// exact until presentation.
// POST: An unpriced file contributes zero to every money column. The flat
// component of the processor fee makes this a distinct case from a file
// priced at zero, which still incurs the per-transaction charge.
func ComputeFile(f *session.FileRecordSet, price decimal.Decimal, priced bool) FileBreakdown {
	counts := f.StatusCounts()
	line := FileBreakdown{
		FileID:       f.ID,
		FileName:     f.FileName(),
		Price:        price,
		Priced:       priced,
		RegularCount: counts[registrant.StatusRegular],
		ManualCount:  counts[registrant.StatusManual],
	}
	if !priced {
		return line
	}

	line.Gross = price.Mul(decimal.NewFromInt(int64(line.RegularCount + line.ManualCount)))
	line.PlatformFee = line.Gross.Mul(platformRate)
	line.ProcessorFee = ProcessorFeePerUnit(price).Mul(decimal.NewFromInt(int64(line.RegularCount)))
	line.Net = line.Gross.Sub(line.PlatformFee).Sub(line.ProcessorFee)
	return line
}

// Compute derives the payout breakdown for every file in the session plus
// column-wise grand totals. Per-file order follows the session's file order.
func Compute(s *session.Session) Breakdown {
	b := Breakdown{}
	for _, f := range s.Files {
		price, priced := s.Fees.PriceFor(f.ID)
		if !priced {
			price = decimal.Zero
			b.ScheduleIncomplete = true
		}
		line := ComputeFile(f, price, priced)
		b.PerFile = append(b.PerFile, line)
		b.Totals.Add(line)
	}
	return b
}
