package scheduler

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/grailbio/base/log"
	"github.com/pkg/errors"
)

// Slurm submits jobs through sbatch and polls them through squeue.
type Slurm struct {
	// Sbatch and Squeue are the binaries to invoke; plain names are resolved
	// through PATH.
	Sbatch string
	Squeue string
	// Partition, when nonempty, is passed to every submission.
	Partition string

	// run is swapped out in tests.
	run func(ctx context.Context, name string, args ...string) ([]byte, error)
}

// NewSlurm returns a Slurm submitter using the given binaries.
func NewSlurm(sbatch, squeue, partition string) *Slurm {
	return &Slurm{Sbatch: sbatch, Squeue: squeue, Partition: partition, run: runCommand}
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// sbatchArgs builds the argument list for one submission. The job's command
// line goes through --wrap; dependencies become a single afterok expression,
// which for an array predecessor gates on every element of the array.
func (s *Slurm) sbatchArgs(req Request) []string {
	args := []string{"--parsable", "--job-name=" + req.Name}
	if s.Partition != "" {
		args = append(args, "--partition="+s.Partition)
	}
	if req.LogDir != "" {
		args = append(args,
			"--output="+filepath.Join(req.LogDir, req.Name+".%j.out"),
			"--error="+filepath.Join(req.LogDir, req.Name+".%j.err"))
	}
	if len(req.After) > 0 {
		dep := "--dependency=afterok"
		for _, id := range req.After {
			dep += ":" + string(id)
		}
		args = append(args, dep)
	}
	if req.ArraySize > 0 {
		args = append(args, fmt.Sprintf("--array=1-%d", req.ArraySize))
	}
	return append(args, "--wrap="+strings.Join(req.Argv, " "))
}

// parseJobID extracts the job identifier from sbatch --parsable output, which
// is "<jobid>" or "<jobid>;<cluster>" on the first line.
func parseJobID(out string) (JobID, error) {
	line := strings.TrimSpace(strings.SplitN(out, "\n", 2)[0])
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	if line == "" {
		return "", errors.Errorf("no job id in sbatch output %q", out)
	}
	for _, c := range line {
		if c < '0' || c > '9' {
			return "", errors.Errorf("malformed job id in sbatch output %q", out)
		}
	}
	return JobID(line), nil
}

// Submit registers one job. On failure it returns a *SubmissionError carrying
// the scheduler's combined output.
func (s *Slurm) Submit(ctx context.Context, req Request) (JobID, error) {
	out, err := s.run(ctx, s.Sbatch, s.sbatchArgs(req)...)
	if err != nil {
		return "", &SubmissionError{Name: req.Name, Output: strings.TrimSpace(string(out)), Err: err}
	}
	id, err := parseJobID(string(out))
	if err != nil {
		return "", &SubmissionError{Name: req.Name, Err: err}
	}
	log.Debug.Printf("submitted %s as job %s", req.Name, id)
	return id, nil
}

// Pending reports how many of ids are still known to the queue. Jobs that
// have left the queue entirely make squeue complain about invalid ids; that
// is the terminal state we are waiting for, not an error.
func (s *Slurm) Pending(ctx context.Context, ids []JobID) (int, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	joined := make([]string, len(ids))
	for i, id := range ids {
		joined[i] = string(id)
	}
	out, err := s.run(ctx, s.Squeue, "--noheader", "--format=%i", "--jobs="+strings.Join(joined, ","))
	if err != nil {
		if strings.Contains(string(out), "Invalid job id") {
			return 0, nil
		}
		return 0, errors.Wrapf(err, "squeue: %s", strings.TrimSpace(string(out)))
	}
	n := 0
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n, nil
}
