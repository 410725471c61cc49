package sessionstore

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"anklebreaker/internal/domain/registrant"
	domain "anklebreaker/internal/domain/session"
)

// Directory layout constants.
const (
	csvDirName   = "csv"
	metaDirName  = "metadata"
	metaFileName = "metadata.json"
)

// tableHeader is the column layout of every table this engine writes.
var tableHeader = []string{
	"Name", "Email", "Phone", "Status", "Registered At",
	"Notes", "Default Status", "Current Status", "Reviewer Note",
}

// metadataRecord is the session's JSON metadata record. Field set and names
// are the wire format; fees are keyed by current table file name.
type metadataRecord struct {
	Club         string                 `json:"club"`
	Date         string                 `json:"date"`
	Paid         bool                   `json:"paid"`
	Flagged      bool                   `json:"flagged"`
	FlaggedFiles []string               `json:"flagged_files"`
	Fees         map[string]json.Number `json:"fees"`
	NetToClub    json.Number            `json:"net_to_club"`
	LastOpened   string                 `json:"last_opened"`
}

// metadataFromSession snapshots the session's persisted state.
func metadataFromSession(s *domain.Session) metadataRecord {
	rec := metadataRecord{
		Club:         s.Club,
		Date:         s.EventDate,
		Paid:         s.Paid,
		Flagged:      s.Flagged(),
		FlaggedFiles: s.FlaggedFiles(),
		Fees:         make(map[string]json.Number),
		NetToClub:    json.Number(s.NetToClub.String()),
	}
	if rec.FlaggedFiles == nil {
		rec.FlaggedFiles = []string{}
	}
	for _, f := range s.Files {
		if price, ok := s.Fees.PriceFor(f.ID); ok {
			rec.Fees[f.FileName()] = json.Number(price.String())
		}
	}
	if !s.LastOpened.IsZero() {
		rec.LastOpened = s.LastOpened.Format(time.RFC3339)
	}
	return rec
}

// applyMetadata copies persisted metadata onto a freshly loaded session.
// Fee keys that match no current file are pruned, not raised.
func applyMetadata(s *domain.Session, rec metadataRecord) {
	s.Club = rec.Club
	s.EventDate = rec.Date
	s.Paid = rec.Paid
	if rec.LastOpened != "" {
		if t, err := time.Parse(time.RFC3339, rec.LastOpened); err == nil {
			s.LastOpened = t
		}
	}
	if net, err := decimal.NewFromString(rec.NetToClub.String()); err == nil {
		s.NetToClub = net
	}
	for fileName, number := range rec.Fees {
		f, err := s.FileByBaseName(domain.TrimBaseName(fileName))
		if err != nil {
			continue
		}
		if price, perr := decimal.NewFromString(number.String()); perr == nil && !price.IsNegative() {
			s.Fees[f.ID] = price
		}
	}
}

// summaryNet parses the persisted net payout for the session list.
func summaryNet(rec metadataRecord) (decimal.Decimal, error) {
	if rec.NetToClub == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(rec.NetToClub.String())
}

// marshalTable renders one record set as CSV rows, header included.
func marshalTable(f *domain.FileRecordSet) [][]string {
	rows := make([][]string, 0, len(f.Records)+1)
	rows = append(rows, tableHeader)
	for _, r := range f.Records {
		registered := ""
		if !r.RegisteredAt.IsZero() {
			registered = r.RegisteredAt.Format(time.RFC3339)
		}
		rows = append(rows, []string{
			r.Name,
			r.Email,
			r.Phone,
			r.RawStatus,
			registered,
			r.Notes,
			string(r.DefaultStatus),
			string(r.CurrentStatus),
			r.ReviewerNote,
		})
	}
	return rows
}

// unmarshalTable reconstructs a record set from stored CSV rows. The current
// status comes from the stored column when present, else from the stored
// default status; records written before a status value existed default-fill
// to the sentinel.
func unmarshalTable(id, baseName string, rows [][]string) *domain.FileRecordSet {
	f := &domain.FileRecordSet{ID: id, BaseName: baseName}
	if len(rows) == 0 {
		return f
	}
	for _, cells := range rows[1:] {
		get := func(col int) string {
			if col < len(cells) {
				return cells[col]
			}
			return ""
		}
		defaultRaw := get(6)
		currentRaw := get(7)
		if currentRaw == "" {
			currentRaw = defaultRaw
		}
		rec := &registrant.Record{
			Name:          get(0),
			Email:         get(1),
			Phone:         get(2),
			RawStatus:     get(3),
			Notes:         get(5),
			ReviewerNote:  get(8),
			DefaultStatus: registrant.ParseStatus(defaultRaw),
			CurrentStatus: registrant.ParseStatus(currentRaw),
		}
		if ts := get(4); ts != "" {
			if t, err := time.Parse(time.RFC3339, ts); err == nil {
				rec.RegisteredAt = t
			}
		}
		f.Records = append(f.Records, rec)
	}
	return f
}
