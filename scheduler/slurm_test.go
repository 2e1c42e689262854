package scheduler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestSbatchArgs(t *testing.T) {
	s := NewSlurm("sbatch", "squeue", "bigmem")
	args := s.sbatchArgs(Request{
		Name:   "P1-mutect2",
		Argv:   []string{"gatk", "Mutect2", "-I", "/bam/P1.bam"},
		LogDir: "/out/logs",
	})
	assert.Equal(t, []string{
		"--parsable",
		"--job-name=P1-mutect2",
		"--partition=bigmem",
		"--output=/out/logs/P1-mutect2.%j.out",
		"--error=/out/logs/P1-mutect2.%j.err",
		"--wrap=gatk Mutect2 -I /bam/P1.bam",
	}, args)
}

func TestSbatchArgsDependencyAndArray(t *testing.T) {
	s := NewSlurm("sbatch", "squeue", "")
	args := s.sbatchArgs(Request{
		Name:  "P1-hc-gather",
		Argv:  []string{"gatk", "MergeVcfs"},
		After: []JobID{"101", "102"},
	})
	assert.Contains(t, args, "--dependency=afterok:101:102")
	assert.NotContains(t, strings.Join(args, " "), "--array")

	args = s.sbatchArgs(Request{
		Name:      "P1-hc-scatter",
		Argv:      []string{"gatk", "HaplotypeCaller"},
		ArraySize: 24,
	})
	assert.Contains(t, args, "--array=1-24")
}

func TestParseJobID(t *testing.T) {
	for out, want := range map[string]JobID{
		"12345\n":         "12345",
		"12345;cluster\n": "12345",
		"7":               "7",
	} {
		id, err := parseJobID(out)
		assert.NoError(t, err)
		assert.Equal(t, want, id)
	}
	for _, out := range []string{"", "\n", "sbatch: error\n", "12a45\n"} {
		_, err := parseJobID(out)
		assert.Error(t, err, "output %q", out)
	}
}

func TestSubmit(t *testing.T) {
	s := NewSlurm("sbatch", "squeue", "")
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "sbatch", name)
		return []byte("4242;main\n"), nil
	}
	id, err := s.Submit(context.Background(), Request{Name: "j", Argv: []string{"true"}})
	assert.NoError(t, err)
	assert.Equal(t, JobID("4242"), id)
}

func TestSubmitFailure(t *testing.T) {
	s := NewSlurm("sbatch", "squeue", "")
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("sbatch: error: invalid partition\n"), errors.New("exit status 1")
	}
	_, err := s.Submit(context.Background(), Request{Name: "j", Argv: []string{"true"}})
	serr, ok := err.(*SubmissionError)
	if assert.True(t, ok) {
		assert.Equal(t, "j", serr.Name)
		assert.Contains(t, serr.Output, "invalid partition")
	}
}

func TestPending(t *testing.T) {
	s := NewSlurm("sbatch", "squeue", "")
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		assert.Equal(t, "squeue", name)
		assert.Contains(t, args, "--jobs=1,2,3")
		return []byte("1\n3\n"), nil
	}
	n, err := s.Pending(context.Background(), []JobID{"1", "2", "3"})
	assert.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestPendingAllDone(t *testing.T) {
	s := NewSlurm("sbatch", "squeue", "")
	s.run = func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return []byte("slurm_load_jobs error: Invalid job id specified\n"), errors.New("exit status 1")
	}
	n, err := s.Pending(context.Background(), []JobID{"1"})
	assert.NoError(t, err)
	assert.Equal(t, 0, n)
}

type fakeQueue struct {
	polls   int
	pending []int
}

func (q *fakeQueue) Pending(ctx context.Context, ids []JobID) (int, error) {
	n := q.pending[q.polls]
	if q.polls < len(q.pending)-1 {
		q.polls++
	}
	return n, nil
}

func TestWaitAll(t *testing.T) {
	q := &fakeQueue{pending: []int{2, 1, 0}}
	err := waitAllFast(t, q, []JobID{"1", "2"})
	assert.NoError(t, err)
	assert.Equal(t, 2, q.polls)
}

func TestWaitAllTimeout(t *testing.T) {
	q := &fakeQueue{pending: []int{1}}
	err := waitAllFast(t, q, []JobID{"1"})
	assert.Error(t, err)
}

func TestWaitAllNoJobs(t *testing.T) {
	assert.NoError(t, WaitAll(context.Background(), &fakeQueue{pending: []int{0}}, nil, time.Second))
}

// waitAllFast runs WaitAll with millisecond polling so tests finish quickly.
func waitAllFast(t *testing.T, q StatusQuerier, ids []JobID) error {
	savedPoll, savedMax := pollInterval, maxPollInterval
	pollInterval, maxPollInterval = time.Millisecond, 5*time.Millisecond
	defer func() { pollInterval, maxPollInterval = savedPoll, savedMax }()
	return WaitAll(context.Background(), q, ids, 100*time.Millisecond)
}
