package models

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

// PartitionDateLayout is the key format of a date partition.
const PartitionDateLayout = "2006-01-02"

// PartitionCounter coordinates the jobs writing into one date partition.
// JobCounter only grows. ActiveJobs maps a job id to the order it was
// assigned and is NULL until the first job of the date registers.
type PartitionCounter struct {
	PartitionDate string            `gorm:"primaryKey;size:10" json:"partition_date"`
	JobCounter    int64             `gorm:"not null;default:0" json:"job_counter"`
	ActiveJobs    datatypes.JSONMap `gorm:"type:jsonb" json:"active_jobs"`
	CreatedAt     time.Time         `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"created_at"`
	UpdatedAt     time.Time         `gorm:"default:(CURRENT_TIMESTAMP AT TIME ZONE 'UTC')" json:"updated_at"`
}

func (PartitionCounter) TableName() string { return "partition_counters" }

// Snapshot converts the stored row into its backend-neutral form.
func (p *PartitionCounter) Snapshot() (*PartitionSnapshot, error) {
	s := &PartitionSnapshot{
		PartitionDate: p.PartitionDate,
		JobCounter:    p.JobCounter,
		HasActiveJobs: p.ActiveJobs != nil,
		ActiveJobs:    make(map[string]int64, len(p.ActiveJobs)),
	}
	for job, v := range p.ActiveJobs {
		order, err := jsonInt(v)
		if err != nil {
			return nil, fmt.Errorf("active job %s: %w", job, err)
		}
		s.ActiveJobs[job] = order
	}
	return s, nil
}

// PartitionSnapshot is a point-in-time view of a partition counter.
type PartitionSnapshot struct {
	PartitionDate string           `json:"partition_date"`
	JobCounter    int64            `json:"job_counter"`
	HasActiveJobs bool             `json:"has_active_jobs"`
	ActiveJobs    map[string]int64 `json:"active_jobs"`
}

func jsonInt(v any) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	default:
		return 0, fmt.Errorf("unexpected order type %T", v)
	}
}
