package pipeline

import (
	"path/filepath"
	"testing"

	"github.com/grailbio/mosaic/scheduler"
	"github.com/grailbio/testutil"
	"github.com/stretchr/testify/assert"
)

func TestJobTableRoundTrip(t *testing.T) {
	tmp, cleanup := testutil.TempDir(t, "", "")
	defer cleanup()

	res := &RunResult{
		Results: []*SubmitResult{
			{Sample: "P1", IDs: map[string]scheduler.JobID{StageMosaicHunter: "11", StageHCScatter: "12"}},
			{Sample: "MO1", IDs: map[string]scheduler.JobID{StageMutect2: "13"}},
		},
	}
	path := filepath.Join(tmp, "jobids.tsv")
	assert.NoError(t, WriteJobTable(path, res))

	ids, err := ReadJobIDs(path)
	assert.NoError(t, err)
	assert.ElementsMatch(t, []scheduler.JobID{"11", "12", "13"}, ids)
}

func TestReadJobIDsMissing(t *testing.T) {
	_, err := ReadJobIDs("/nonexistent/jobids.tsv")
	assert.Error(t, err)
}
