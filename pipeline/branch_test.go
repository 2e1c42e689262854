package pipeline

import (
	"testing"

	"github.com/grailbio/mosaic/samplelist"
	"github.com/stretchr/testify/assert"
)

func TestSelectBranchesTrio(t *testing.T) {
	fam := samplelist.Family{
		BAMDir:    "/bam/fam1",
		ProbandID: "P1",
		Gender:    samplelist.Male,
		MotherID:  "MO1",
		FatherID:  "FA1",
	}
	branches := SelectBranches(fam)
	assert.Len(t, branches, 3)

	assert.Equal(t, "P1", branches[0].Sample)
	assert.Equal(t, Trio, branches[0].Kind)
	assert.Equal(t, "MO1", branches[0].MotherID)
	assert.Equal(t, "FA1", branches[0].FatherID)

	assert.Equal(t, "MO1", branches[1].Sample)
	assert.Equal(t, SingleSample, branches[1].Kind)
	assert.Equal(t, samplelist.Female, branches[1].Gender)

	assert.Equal(t, "FA1", branches[2].Sample)
	assert.Equal(t, SingleSample, branches[2].Kind)
	assert.Equal(t, samplelist.Male, branches[2].Gender)
}

func TestSelectBranchesSingleton(t *testing.T) {
	fam := samplelist.Family{BAMDir: "/bam/fam2", ProbandID: "P2", Gender: samplelist.Female}
	branches := SelectBranches(fam)
	assert.Len(t, branches, 1)
	assert.Equal(t, "P2", branches[0].Sample)
	assert.Equal(t, SingleSample, branches[0].Kind)
}

// One parent present is not a trio, but the parent still gets a branch.
func TestSelectBranchesOneParent(t *testing.T) {
	fam := samplelist.Family{BAMDir: "/bam/fam3", ProbandID: "P3", Gender: samplelist.Male, MotherID: "MO3"}
	branches := SelectBranches(fam)
	assert.Len(t, branches, 2)
	assert.Equal(t, SingleSample, branches[0].Kind)
	assert.Equal(t, "MO3", branches[1].Sample)

	fam = samplelist.Family{BAMDir: "/bam/fam4", ProbandID: "P4", Gender: samplelist.Male, FatherID: "FA4"}
	branches = SelectBranches(fam)
	assert.Len(t, branches, 2)
	assert.Equal(t, SingleSample, branches[0].Kind)
	assert.Equal(t, "FA4", branches[1].Sample)
}

func TestSelectBranchesNeverEmptySample(t *testing.T) {
	for _, fam := range []samplelist.Family{
		{BAMDir: "/bam", ProbandID: "P", Gender: samplelist.Male},
		{BAMDir: "/bam", ProbandID: "P", Gender: samplelist.Male, MotherID: "M"},
		{BAMDir: "/bam", ProbandID: "P", Gender: samplelist.Male, MotherID: "M", FatherID: "F"},
	} {
		for _, b := range SelectBranches(fam) {
			assert.NotEmpty(t, b.Sample)
		}
	}
}
