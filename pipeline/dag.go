package pipeline

// JobNode is one not-yet-submitted job. Deps lists the nodes that must have
// completed successfully on the cluster before this one may start. A node is
// created here, submitted exactly once, and from then on exists only as its
// scheduler-assigned JobID; nothing mutates a JobNode after submission.
type JobNode struct {
	Stage     string
	Argv      []string
	ArraySize int
	Deps      []*JobNode
}

// Excluder reports whether a sample is in the panel of normals and must skip
// somatic calling. *panel.Panel implements it.
type Excluder interface {
	Excludes(sampleID string) bool
}

// BuildChains constructs the job chains for one branch, returned in an order
// safe for sequential submission (every node appears after all of its Deps).
// Dependency lists are fresh values scoped to this call; they are never
// shared or reused across samples.
//
// Three independent chain families:
//
//  1. mosaic detection: a single MosaicHunter node, trio-aware or single per
//     the branch kind;
//  2. somatic calling, only when the sample is not in the panel of normals:
//     mutect2 -> filter-mutect, plus the MosaicForecast line mf-extract
//     (depending on mutect2, not on filter-mutect) -> mf-features ->
//     mf-predict. For an excluded sample none of these nodes exist, not
//     merely the first;
//  3. germline scatter/gather: a 24-wide scatter array and a gather node that
//     starts only after the whole array has succeeded.
func BuildChains(b Branch, excl Excluder, opts Opts) []*JobNode {
	nodes := []*JobNode{{
		Stage: StageMosaicHunter,
		Argv:  opts.mosaicHunterArgv(b),
	}}

	if !excl.Excludes(b.Sample) {
		mutect := &JobNode{Stage: StageMutect2, Argv: opts.mutect2Argv(b)}
		filter := &JobNode{Stage: StageFilterMutect, Argv: opts.filterMutectArgv(b), Deps: []*JobNode{mutect}}
		extract := &JobNode{Stage: StageMFExtract, Argv: opts.mfExtractArgv(b), Deps: []*JobNode{mutect}}
		features := &JobNode{Stage: StageMFFeatures, Argv: opts.mfFeaturesArgv(b), Deps: []*JobNode{extract}}
		predict := &JobNode{Stage: StageMFPredict, Argv: opts.mfPredictArgv(b), Deps: []*JobNode{features}}
		nodes = append(nodes, mutect, filter, extract, features, predict)
	}

	scatter := &JobNode{Stage: StageHCScatter, Argv: opts.hcScatterArgv(b), ArraySize: GermlinePartitions}
	gather := &JobNode{Stage: StageHCGather, Argv: opts.hcGatherArgv(b), Deps: []*JobNode{scatter}}
	return append(nodes, scatter, gather)
}

// Leaves returns the nodes no other node depends on. Their jobs are the last
// to finish in each chain family, so a terminal aggregation job needs exactly
// this set as its predecessors.
func Leaves(nodes []*JobNode) []*JobNode {
	hasDependent := map[*JobNode]bool{}
	for _, n := range nodes {
		for _, d := range n.Deps {
			hasDependent[d] = true
		}
	}
	var leaves []*JobNode
	for _, n := range nodes {
		if !hasDependent[n] {
			leaves = append(leaves, n)
		}
	}
	return leaves
}
