// Package samplelist reads the tab-delimited family table that drives one
// orchestration run. Each row after the header names a proband BAM directory,
// the proband id and gender, and optionally the ids of the mother and father.
package samplelist

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// Gender of a sample, as given in the third column of the sample list.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "F"
	}
	return "M"
}

// ParseGender parses the gender column. "M", "F", "male" and "female" are
// accepted, case-insensitively.
func ParseGender(s string) (Gender, error) {
	switch strings.ToUpper(s) {
	case "M", "MALE":
		return Male, nil
	case "F", "FEMALE":
		return Female, nil
	}
	return Male, fmt.Errorf("unrecognized gender %q", s)
}

// Family is one parsed row of the sample list: a proband plus up to two
// parents. MotherID and FatherID are empty when the corresponding column was
// blank or a placeholder; presence drives trio-vs-single branch selection, so
// callers must check HasMother/HasFather before using the ids.
type Family struct {
	BAMDir    string
	ProbandID string
	Gender    Gender
	MotherID  string
	FatherID  string
}

func (f Family) HasMother() bool { return f.MotherID != "" }
func (f Family) HasFather() bool { return f.FatherID != "" }

// Samples returns the ids in this family that actually exist: the proband,
// then the mother and father when present.
func (f Family) Samples() []string {
	s := []string{f.ProbandID}
	if f.HasMother() {
		s = append(s, f.MotherID)
	}
	if f.HasFather() {
		s = append(s, f.FatherID)
	}
	return s
}

// MalformedRecordError describes a sample-list row that cannot produce a
// Family. The row is skipped; the rest of the run proceeds.
type MalformedRecordError struct {
	Line int
	Msg  string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("sample list line %d: %s", e.Line, e.Msg)
}

// absentRelative reports whether a parent column holds a placeholder rather
// than a sample id.
func absentRelative(s string) bool {
	switch s {
	case "", ".", "-", "NA":
		return true
	}
	return false
}

// parseLine parses one non-header sample-list row. Columns are positional and
// whitespace delimited: bamDir probandID gender [motherID [fatherID]].
func parseLine(line string, lineno int) (Family, error) {
	cols := strings.Fields(line)
	if len(cols) < 3 {
		return Family{}, &MalformedRecordError{lineno, fmt.Sprintf("got %d columns, need at least bamDir, probandID, gender", len(cols))}
	}
	gender, err := ParseGender(cols[2])
	if err != nil {
		return Family{}, &MalformedRecordError{lineno, err.Error()}
	}
	fam := Family{
		BAMDir:    cols[0],
		ProbandID: cols[1],
		Gender:    gender,
	}
	if len(cols) > 3 && !absentRelative(cols[3]) {
		fam.MotherID = cols[3]
	}
	if len(cols) > 4 && !absentRelative(cols[4]) {
		fam.FatherID = cols[4]
	}
	return fam, nil
}

// Read parses the sample list at path. The first line is a header and is
// discarded. Malformed rows are logged and skipped; only an IO-level failure
// makes Read itself fail. Gzipped lists are transparently decompressed.
func Read(ctx context.Context, path string) ([]Family, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, err
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	families, err := parse(r, path)
	if e := in.Close(ctx); e != nil && err == nil {
		err = e
	}
	return families, err
}

func parse(r io.Reader, path string) ([]Family, error) {
	var (
		families []Family
		sc       = bufio.NewScanner(r)
		lineno   = 0
	)
	for sc.Scan() {
		lineno++
		if lineno == 1 { // header
			continue
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fam, err := parseLine(line, lineno)
		if err != nil {
			log.Error.Printf("%s: %v (skipping record)", path, err)
			continue
		}
		families = append(families, fam)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E("reading sample list", err)
	}
	return families, nil
}
