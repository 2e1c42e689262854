package pipeline

import (
	"context"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/hts/bam"
)

// Quickcheck opens a sample's BAM and reads its header, catching truncated
// or missing alignments before any cluster time is spent on them. The BAM
// body is not read.
func Quickcheck(ctx context.Context, bamDir, sample string) error {
	path := bamPath(bamDir, sample)
	in, err := file.Open(ctx, path)
	if err != nil {
		return errors.E("quickcheck", path, err)
	}
	r, err := bam.NewReader(in.Reader(ctx), 1)
	if err != nil {
		_ = in.Close(ctx)
		return errors.E("quickcheck: unreadable BAM header", path, err)
	}
	err = r.Close()
	if e := in.Close(ctx); e != nil && err == nil {
		err = e
	}
	if err != nil {
		return errors.E("quickcheck", path, err)
	}
	return nil
}
