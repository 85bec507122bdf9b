package generator

import (
	"time"
)

// sequenceBase is the first sequence number ever issued.
const sequenceBase uint64 = 1000000000000001

// JobMeta carries the per-thread constants every row of a batch shares.
type JobMeta struct {
	JobIndex       int
	ThreadID       int
	NumThreads     int
	RowsPerThread  int
	PartitionOrder int64
	CardBrand      string
	NetworkBrand   string
}

// SequenceNumber returns the cross-table identity of one row. threadID is 1-based.
func (m JobMeta) SequenceNumber(rowIndex int) uint64 {
	perJob := uint64(m.RowsPerThread) * uint64(m.NumThreads)
	return sequenceBase +
		uint64(m.PartitionOrder)*perJob +
		uint64(m.ThreadID-1)*uint64(m.RowsPerThread) +
		uint64(rowIndex)
}

// RowContext is everything the resolver needs to produce one row.
type RowContext struct {
	Seed              uint64
	RowIndex          int
	Job               JobMeta
	Chargebacks       ChargebackSet
	IsChargebackTable bool
	ProcessDate       time.Time
	ReferencePool     []string
	Now               func() time.Time
}

// IsChargeback reports whether chargeback amounts must be populated for this row.
func (c *RowContext) IsChargeback() bool {
	return c.IsChargebackTable || c.Chargebacks.Contains(c.Seed)
}

func (c *RowContext) now() time.Time {
	if c.Now != nil {
		return c.Now().UTC()
	}
	return time.Now().UTC()
}
