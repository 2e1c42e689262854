package pipeline

import (
	"bufio"
	"os"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/mosaic/scheduler"
)

// WriteJobTable records every submitted job id at path as a TSV of
// (sample, stage, jobid). The status command and later waits read it back.
func WriteJobTable(path string, res *RunResult) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.E("writing job table", path, err)
	}
	w := tsv.NewWriter(f)
	w.WriteString("sample")
	w.WriteString("stage")
	w.WriteString("jobid")
	if err := w.EndLine(); err != nil {
		_ = f.Close()
		return err
	}
	for _, sr := range res.Results {
		for stage, id := range sr.IDs {
			w.WriteString(sr.Sample)
			w.WriteString(stage)
			w.WriteString(string(id))
			if err := w.EndLine(); err != nil {
				_ = f.Close()
				return err
			}
		}
	}
	err = w.Flush()
	if e := f.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

// ReadJobIDs returns the job ids recorded by WriteJobTable.
func ReadJobIDs(path string) ([]scheduler.JobID, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.E("reading job table", path, err)
	}
	defer f.Close()
	var (
		ids    []scheduler.JobID
		sc     = bufio.NewScanner(f)
		lineno = 0
	)
	for sc.Scan() {
		lineno++
		if lineno == 1 { // header
			continue
		}
		cols := strings.Split(sc.Text(), "\t")
		if len(cols) != 3 {
			continue
		}
		ids = append(ids, scheduler.JobID(cols[2]))
	}
	return ids, sc.Err()
}
