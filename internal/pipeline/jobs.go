package pipeline

import (
	"crypto/sha256"
	"fmt"
	"sync"
	"time"

	"github.com/dgallion1/omextract/internal/extract"
	"github.com/dgallion1/omextract/internal/output"
	"github.com/google/uuid"
)

// JobStatus represents the state of a conversion job.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusParsing    JobStatus = "parsing"
	StatusExtracting JobStatus = "extracting"
	StatusWriting    JobStatus = "writing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"
)

// Job converts one input document into one output file.
type Job struct {
	mu sync.Mutex

	ID     string        `json:"job_id"`
	Input  string        `json:"input"`
	Output string        `json:"output"`
	Format output.Format `json:"format"`

	Status    JobStatus `json:"status"`
	Err       string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewJob returns a queued job with a fresh ID.
func NewJob(input, out string, format output.Format) *Job {
	now := time.Now()
	return &Job{
		ID:        uuid.NewString(),
		Input:     input,
		Output:    out,
		Format:    format,
		Status:    StatusQueued,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetStatus updates job status atomically.
func (j *Job) SetStatus(status JobStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = status
	j.UpdatedAt = time.Now()
}

// Fail marks the job failed with err.
func (j *Job) Fail(err error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.Status = StatusFailed
	j.Err = err.Error()
	j.UpdatedAt = time.Now()
}

// JobSnapshot is a read-only copy of job state.
type JobSnapshot struct {
	ID     string        `json:"job_id"`
	Input  string        `json:"input"`
	Output string        `json:"output"`
	Format output.Format `json:"format"`
	Status JobStatus     `json:"status"`
	Err    string        `json:"error,omitempty"`
}

func (j *Job) Snapshot() JobSnapshot {
	j.mu.Lock()
	defer j.mu.Unlock()
	return JobSnapshot{
		ID:     j.ID,
		Input:  j.Input,
		Output: j.Output,
		Format: j.Format,
		Status: j.Status,
		Err:    j.Err,
	}
}

// Result is the outcome of one job.
type Result struct {
	Job       JobSnapshot      `json:"job"`
	Records   []extract.Record `json:"-"`
	Summary   extract.Summary  `json:"summary"`
	InputHash string           `json:"input_hash,omitempty"`
	Duration  time.Duration    `json:"duration"`
	Err       error            `json:"-"`
}

// ContentHashHex computes SHA-256 of content and returns hex string.
func ContentHashHex(data []byte) string {
	h := sha256.Sum256(data)
	return fmt.Sprintf("%x", h[:])
}
