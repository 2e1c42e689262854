package pipeline

import (
	"context"
	"fmt"

	"github.com/grailbio/base/log"
	"github.com/grailbio/mosaic/scheduler"
)

// SubmitResult records the outcome of submitting one sample's chains.
type SubmitResult struct {
	Sample string
	// IDs maps each successfully submitted stage to its scheduler job id.
	IDs map[string]scheduler.JobID
	// Failed maps stages the scheduler rejected to the submission error.
	Failed map[string]error
	// Abandoned lists stages that were never submitted because a predecessor
	// failed or was itself abandoned.
	Abandoned []string
	// LeafIDs are the job ids of the submitted leaf nodes (see Leaves).
	LeafIDs []scheduler.JobID
}

// OK reports whether every stage of the sample was submitted.
func (r *SubmitResult) OK() bool {
	return len(r.Failed) == 0 && len(r.Abandoned) == 0
}

// AllIDs returns every job id recorded for the sample.
func (r *SubmitResult) AllIDs() []scheduler.JobID {
	ids := make([]scheduler.JobID, 0, len(r.IDs))
	for _, id := range r.IDs {
		ids = append(ids, id)
	}
	return ids
}

// SubmitChains submits one sample's nodes in dependency order. A node is
// submitted with an after-success condition on its predecessors' job ids; if
// any predecessor has no recorded id (rejected or abandoned), the node is
// abandoned rather than submitted with a dangling dependency. Failures are
// recorded per stage and never abort the caller's loop over other samples.
//
// runID namespaces the scheduler job names so concurrent runs on the same
// cluster cannot collide.
func SubmitChains(ctx context.Context, sub scheduler.Submitter, b Branch, nodes []*JobNode, logDir, runID string) *SubmitResult {
	res := &SubmitResult{
		Sample: b.Sample,
		IDs:    map[string]scheduler.JobID{},
		Failed: map[string]error{},
	}
	submitted := map[*JobNode]scheduler.JobID{}
	for _, n := range nodes {
		after := make([]scheduler.JobID, 0, len(n.Deps))
		abandoned := false
		for _, dep := range n.Deps {
			id, ok := submitted[dep]
			if !ok {
				abandoned = true
				break
			}
			after = append(after, id)
		}
		if abandoned {
			res.Abandoned = append(res.Abandoned, n.Stage)
			log.Error.Printf("%s: %s abandoned: predecessor was not submitted", b.Sample, n.Stage)
			continue
		}
		id, err := sub.Submit(ctx, scheduler.Request{
			Name:      fmt.Sprintf("%s-%s-%s", runID, b.Sample, n.Stage),
			Argv:      n.Argv,
			After:     after,
			ArraySize: n.ArraySize,
			LogDir:    logDir,
		})
		if err != nil {
			res.Failed[n.Stage] = err
			log.Error.Printf("%s: %v", b.Sample, err)
			continue
		}
		submitted[n] = id
		res.IDs[n.Stage] = id
	}
	for _, leaf := range Leaves(nodes) {
		if id, ok := submitted[leaf]; ok {
			res.LeafIDs = append(res.LeafIDs, id)
		}
	}
	return res
}
