// Package panel loads the panel-of-normals sample set used to decide which
// samples must skip somatic calling.
package panel

import (
	"bufio"
	"context"
	"io"
	"strings"

	"github.com/grailbio/base/compress"
	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
)

// Panel is the set of sample identifiers already present in the reference
// panel of normals. It is immutable after Load and safe for concurrent
// readers.
type Panel struct {
	ids map[string]bool
}

// Excludes reports whether sampleID is a member of the panel. Membership is
// exact-token equality; a panel id that merely contains sampleID as a
// substring does not match.
func (p *Panel) Excludes(sampleID string) bool {
	return p.ids[sampleID]
}

// Len returns the number of identifiers in the panel.
func (p *Panel) Len() int { return len(p.ids) }

// Load reads the panel file at path. Lines starting with '#' are comments;
// the first whitespace-delimited token of every other line is one sample
// identifier. Gzipped panels are transparently decompressed.
func Load(ctx context.Context, path string) (*Panel, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E("opening panel of normals", path, err)
	}
	var r io.Reader = in.Reader(ctx)
	if u := compress.NewReaderPath(r, in.Name()); u != nil {
		r = u
	}
	p, err := parse(r)
	if e := in.Close(ctx); e != nil && err == nil {
		err = e
	}
	if err == nil {
		log.Printf("panel of normals: %d samples from %s", p.Len(), path)
	}
	return p, err
}

func parse(r io.Reader) (*Panel, error) {
	p := &Panel{ids: map[string]bool{}}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p.ids[strings.Fields(line)[0]] = true
	}
	if err := sc.Err(); err != nil {
		return nil, errors.E("reading panel of normals", err)
	}
	return p, nil
}
