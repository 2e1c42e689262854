package pipeline

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/grailbio/base/log"
	"github.com/grailbio/mosaic/samplelist"
	"github.com/grailbio/mosaic/scheduler"
)

// RunResult is the outcome of the whole submission phase.
type RunResult struct {
	// RunID namespaces this run's scheduler job names.
	RunID string
	// Samples lists every sample whose chains were built, in submission
	// order. The aggregation pass scans exactly this set.
	Samples []string
	// Results holds one SubmitResult per sample.
	Results []*SubmitResult
	// Skipped lists samples dropped before submission (failed quickcheck).
	Skipped []string
}

// AllIDs returns every job id submitted during the run.
func (r *RunResult) AllIDs() []scheduler.JobID {
	var ids []scheduler.JobID
	for _, res := range r.Results {
		ids = append(ids, res.AllIDs()...)
	}
	return ids
}

// LeafIDs returns the job ids of every sample's leaf jobs.
func (r *RunResult) LeafIDs() []scheduler.JobID {
	var ids []scheduler.JobID
	for _, res := range r.Results {
		ids = append(ids, res.LeafIDs...)
	}
	return ids
}

// Failures counts samples with at least one rejected or abandoned stage.
func (r *RunResult) Failures() int {
	n := 0
	for _, res := range r.Results {
		if !res.OK() {
			n++
		}
	}
	return n + len(r.Skipped)
}

// Orchestrate runs the submission phase: for every family, select branches,
// build each sample's chains against the exclusion filter, and submit them.
// Per-sample failures are isolated; the loop always continues with the next
// sample. When quickcheck is set, samples with unreadable BAMs are skipped
// before anything is submitted for them.
func Orchestrate(ctx context.Context, sub scheduler.Submitter, families []samplelist.Family, excl Excluder, opts Opts, quickcheck bool) *RunResult {
	res := &RunResult{RunID: uuid.New().String()[:8]}
	// Scheduler stdout/stderr captures share the run-log directory.
	logDir := filepath.Join(opts.OutDir, "logs")
	for _, fam := range families {
		plog := openRunLog(opts.OutDir, fam.ProbandID)
		plog.Printf("run %s: family %s (mother=%q father=%q)", res.RunID, fam.ProbandID, fam.MotherID, fam.FatherID)
		for _, b := range SelectBranches(fam) {
			if quickcheck {
				if err := Quickcheck(ctx, b.BAMDir, b.Sample); err != nil {
					log.Error.Printf("%s: %v (skipping sample)", b.Sample, err)
					plog.Printf("%s: skipped: %v", b.Sample, err)
					res.Skipped = append(res.Skipped, b.Sample)
					continue
				}
			}
			excluded := excl.Excludes(b.Sample)
			plog.Printf("%s: branch=%s excluded=%v", b.Sample, b.Kind, excluded)
			nodes := BuildChains(b, excl, opts)
			sr := SubmitChains(ctx, sub, b, nodes, logDir, res.RunID)
			for stage, id := range sr.IDs {
				plog.Printf("%s: %s submitted as job %s", b.Sample, stage, id)
			}
			for stage, err := range sr.Failed {
				plog.Printf("%s: %s rejected: %v", b.Sample, stage, err)
			}
			for _, stage := range sr.Abandoned {
				plog.Printf("%s: %s abandoned", b.Sample, stage)
			}
			res.Samples = append(res.Samples, b.Sample)
			res.Results = append(res.Results, sr)
		}
		plog.Close()
	}
	return res
}
