package dto

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Timestamp int64  `json:"timestamp"`
}

// PartitionRequest selects a partition counter record
type PartitionRequest struct {
	Date string `validate:"required,datetime=2006-01-02"`
}

// PartitionResponse is the counter record of one partition date
type PartitionResponse struct {
	PartitionDate string           `json:"partition_date"`
	JobCounter    int64            `json:"job_counter"`
	ActiveJobs    map[string]int64 `json:"active_jobs"`
}
