// Package scheduler is the boundary to the cluster batch scheduler. The
// orchestrator only ever submits jobs and asks whether submitted jobs are
// still in the queue; execution ordering between jobs is enforced by the
// scheduler's own dependency mechanism, never by waiting locally.
package scheduler

import (
	"context"
	"fmt"
)

// JobID is the scheduler-assigned identifier of one submitted job. It is
// opaque to this system except for appearing in dependency expressions.
type JobID string

// Request describes one job submission.
type Request struct {
	// Name is the scheduler-visible job name.
	Name string
	// Argv is the opaque tool invocation to run on the cluster.
	Argv []string
	// After lists predecessor jobs; the scheduler starts this job only after
	// every one of them has completed successfully.
	After []JobID
	// ArraySize, when positive, submits the job as a parallel array of that
	// many elements (1-based partition index exposed to the tool).
	ArraySize int
	// LogDir receives the scheduler's stdout/stderr capture for the job.
	LogDir string
}

// Submitter registers jobs with the external scheduler. A successful Submit
// is the only externally observable mutation of the submission phase.
type Submitter interface {
	Submit(ctx context.Context, req Request) (JobID, error)
}

// StatusQuerier reports how many of the given jobs are still queued or
// running.
type StatusQuerier interface {
	Pending(ctx context.Context, ids []JobID) (int, error)
}

// SubmissionError is the typed failure of one submission attempt. The
// dependents of the failed job must be abandoned by the caller.
type SubmissionError struct {
	Name   string
	Output string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("submitting %s: %v: %s", e.Name, e.Err, e.Output)
	}
	return fmt.Sprintf("submitting %s: %v", e.Name, e.Err)
}

func (e *SubmissionError) Unwrap() error { return e.Err }
