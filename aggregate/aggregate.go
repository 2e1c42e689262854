// Package aggregate implements the post-submission pass that merges each
// sample's per-tool result files into the run-wide consolidated call sets.
package aggregate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/tsv"
)

// tools fixes, per calling tool, the expected per-sample result suffix and
// the consolidated call-set file it feeds.
var tools = []struct {
	Name         string
	Suffix       string
	Consolidated string
}{
	{"Mutect2", ".mutect2.filtered.vcf", "Mutect2.calls"},
	{"MosaicForecast", ".mosaicforecast.predictions.tsv", "MosaicForecast.calls"},
	{"MosaicHunter", ".mosaichunter.final.passed.tsv", "MosaicHunter.calls.txt"},
}

// manifestName is the consumed-source ledger kept next to the consolidated
// files. A result file listed there has already been appended, so re-running
// aggregation without new outputs appends nothing.
const manifestName = "aggregate.manifest"

// Report summarizes one aggregation pass.
type Report struct {
	SamplesScanned int
	// Rows counts consolidated rows appended, per tool name.
	Rows map[string]int
	// Missing lists expected result files that did not exist yet, one entry
	// per sample and tool. Missing outputs are expected whenever the cluster
	// jobs have not finished; they are logged and skipped, never fatal.
	Missing []string
	// AlreadyDone counts result files skipped because the manifest already
	// listed them.
	AlreadyDone int
}

// sampleRows is the parsed content of one sample's result file for one tool.
type sampleRows struct {
	tool   string
	sample string
	path   string
	lines  []string
}

// Aggregate scans each sample's expected result files under outDir and
// appends their rows, labeled with tool and sample, to the consolidated call
// sets. File reads fan out across samples; all appends happen in one serial
// pass so the shared output files only ever see a single writer.
func Aggregate(ctx context.Context, outDir string, samples []string) (*Report, error) {
	done, err := readManifest(outDir)
	if err != nil {
		return nil, err
	}
	report := &Report{SamplesScanned: len(samples), Rows: map[string]int{}}

	var (
		mu      sync.Mutex
		pending []sampleRows
	)
	err = traverse.Each(len(samples), func(i int) error {
		sample := samples[i]
		for _, tool := range tools {
			path, ok := findResult(outDir, sample, tool.Suffix)
			if ok && done[path] { // done is read-only here
				mu.Lock()
				report.AlreadyDone++
				mu.Unlock()
				continue
			}
			if !ok {
				mu.Lock()
				report.Missing = append(report.Missing, fmt.Sprintf("%s: no %s result", sample, tool.Name))
				mu.Unlock()
				log.Printf("%s: %s result not present yet, skipping", sample, tool.Name)
				continue
			}
			lines, err := readRows(path)
			if err != nil {
				// Unreadable is handled like missing: the sample's jobs may
				// still be writing the file.
				mu.Lock()
				report.Missing = append(report.Missing, fmt.Sprintf("%s: unreadable %s result: %v", sample, tool.Name, err))
				mu.Unlock()
				log.Error.Printf("%s: %v", sample, err)
				continue
			}
			mu.Lock()
			pending = append(pending, sampleRows{tool.Name, sample, path, lines})
			mu.Unlock()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Single-writer append pass, in deterministic sample order.
	ordered := orderRows(samples, pending)
	for _, tool := range tools {
		if err := appendRows(outDir, tool.Consolidated, tool.Name, ordered, report); err != nil {
			return nil, err
		}
	}
	var consumed []string
	for _, rows := range ordered {
		consumed = append(consumed, rows.path)
	}
	if err := appendManifest(outDir, consumed); err != nil {
		return nil, err
	}
	return report, nil
}

// findResult locates a result file, accepting a gzipped variant.
func findResult(outDir, sample, suffix string) (string, bool) {
	for _, path := range []string{
		filepath.Join(outDir, sample+suffix),
		filepath.Join(outDir, sample+suffix+".gz"),
	} {
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// readRows returns the data rows of a result file, dropping comment and
// header lines ('#' prefix) and blank lines.
func readRows(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var r io.Reader = f
	if u := compress.NewReaderPath(r, path); u != nil {
		r = u
	}
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(nil, 4<<20) // variant rows can be long
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E("reading", path, err)
	}
	return lines, nil
}

func orderRows(samples []string, pending []sampleRows) []sampleRows {
	var ordered []sampleRows
	for _, sample := range samples {
		for _, rows := range pending {
			if rows.sample == sample {
				ordered = append(ordered, rows)
			}
		}
	}
	return ordered
}

// appendRows appends every pending row for one tool to its consolidated
// file: sample, tool, then the original row.
func appendRows(outDir, consolidated, toolName string, ordered []sampleRows, report *Report) error {
	var selected []sampleRows
	for _, rows := range ordered {
		if rows.tool == toolName {
			selected = append(selected, rows)
		}
	}
	if len(selected) == 0 {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(outDir, consolidated), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return errors.E("opening consolidated call set", consolidated, err)
	}
	w := tsv.NewWriter(f)
	for _, rows := range selected {
		for _, line := range rows.lines {
			w.WriteString(rows.sample)
			w.WriteString(toolName)
			w.WriteString(line)
			if err := w.EndLine(); err != nil {
				_ = f.Close()
				return errors.E("appending to", consolidated, err)
			}
			report.Rows[toolName]++
		}
	}
	err = w.Flush()
	if e := f.Close(); e != nil && err == nil {
		err = e
	}
	return err
}

func readManifest(outDir string) (map[string]bool, error) {
	done := map[string]bool{}
	f, err := os.Open(filepath.Join(outDir, manifestName))
	if os.IsNotExist(err) {
		return done, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			done[line] = true
		}
	}
	return done, sc.Err()
}

func appendManifest(outDir string, consumed []string) error {
	if len(consumed) == 0 {
		return nil
	}
	f, err := os.OpenFile(filepath.Join(outDir, manifestName), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		return err
	}
	for _, path := range consumed {
		if _, err := fmt.Fprintln(f, path); err != nil {
			_ = f.Close()
			return err
		}
	}
	return f.Close()
}
