package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/vcontext"
	"github.com/grailbio/mosaic/aggregate"
	"github.com/grailbio/mosaic/config"
	"github.com/grailbio/mosaic/panel"
	"github.com/grailbio/mosaic/pipeline"
	"github.com/grailbio/mosaic/samplelist"
	"github.com/grailbio/mosaic/scheduler"
)

const jobTableName = "jobids.tsv"

// submit runs the submission phase and records the job table. Pre-flight
// failures (config, sample list, panel) return an error before anything is
// submitted; per-sample failures are reported in the result and do not stop
// the run.
func submit(flags commonFlags, quickcheck bool) (*pipeline.RunResult, config.Config, error) {
	ctx := vcontext.Background()
	cfg, err := config.Load(ctx, *flags.configPath)
	if err != nil {
		return nil, cfg, err
	}
	families, err := samplelist.Read(ctx, *flags.sampleList)
	if err != nil {
		return nil, cfg, err
	}
	if len(families) == 0 {
		return nil, cfg, fmt.Errorf("%s: no usable family records", *flags.sampleList)
	}
	pon, err := panel.Load(ctx, cfg.PanelOfNormals)
	if err != nil {
		return nil, cfg, err
	}
	outDir := *flags.outputDir
	if err := os.MkdirAll(outDir, 0777); err != nil {
		return nil, cfg, err
	}

	sub := scheduler.NewSlurm(cfg.Sbatch, cfg.Squeue, cfg.Partition)
	res := pipeline.Orchestrate(ctx, sub, families, pon,
		pipeline.Opts{Config: cfg, OutDir: outDir}, quickcheck)
	if err := pipeline.WriteJobTable(filepath.Join(outDir, jobTableName), res); err != nil {
		return nil, cfg, err
	}
	log.Printf("run %s: %d samples, %d jobs submitted, %d samples with failures",
		res.RunID, len(res.Samples), len(res.AllIDs()), res.Failures())
	return res, cfg, nil
}

// run is the full pipeline: submit, then either hand the aggregation pass to
// the scheduler as a terminal job, or poll until every submitted job has left
// the queue and aggregate locally.
func run(flags commonFlags, quickcheck, aggViaScheduler bool) error {
	res, cfg, err := submit(flags, quickcheck)
	if err != nil {
		return err
	}
	ctx := vcontext.Background()
	if aggViaScheduler {
		return submitAggregateJob(ctx, cfg, flags, res)
	}
	sub := scheduler.NewSlurm(cfg.Sbatch, cfg.Squeue, cfg.Partition)
	if err := scheduler.WaitAll(ctx, sub, res.AllIDs(), cfg.WaitTimeout); err != nil {
		return fmt.Errorf("waiting for cluster jobs: %v", err)
	}
	report, err := aggregate.Aggregate(ctx, *flags.outputDir, res.Samples)
	if err != nil {
		return err
	}
	logReport(report)
	return nil
}

// submitAggregateJob re-submits this binary's aggregate command as one more
// scheduler job gated on every sample's leaf jobs.
func submitAggregateJob(ctx context.Context, cfg config.Config, flags commonFlags, res *pipeline.RunResult) error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}
	sub := scheduler.NewSlurm(cfg.Sbatch, cfg.Squeue, cfg.Partition)
	id, err := sub.Submit(ctx, scheduler.Request{
		Name: res.RunID + "-aggregate",
		Argv: []string{exe, "aggregate",
			"-sample-list", *flags.sampleList,
			"-output-dir", *flags.outputDir},
		After:  res.LeafIDs(),
		LogDir: filepath.Join(*flags.outputDir, "logs"),
	})
	if err != nil {
		return err
	}
	log.Printf("aggregation submitted as job %s, gated on %d leaf jobs", id, len(res.LeafIDs()))
	return nil
}

// aggregateResults runs the aggregation pass over the samples named by the
// sample list.
func aggregateResults(sampleList, outDir string) error {
	ctx := vcontext.Background()
	families, err := samplelist.Read(ctx, sampleList)
	if err != nil {
		return err
	}
	var samples []string
	for _, fam := range families {
		samples = append(samples, fam.Samples()...)
	}
	report, err := aggregate.Aggregate(ctx, outDir, samples)
	if err != nil {
		return err
	}
	logReport(report)
	return nil
}

func logReport(report *aggregate.Report) {
	for tool, n := range report.Rows {
		log.Printf("aggregated %d %s rows", n, tool)
	}
	for _, miss := range report.Missing {
		log.Printf("missing output: %s", miss)
	}
	log.Printf("aggregation done: %d samples scanned, %d results already consolidated, %d outputs missing",
		report.SamplesScanned, report.AlreadyDone, len(report.Missing))
}

func status(outDir, squeue string) error {
	ctx := vcontext.Background()
	ids, err := pipeline.ReadJobIDs(filepath.Join(outDir, jobTableName))
	if err != nil {
		return err
	}
	q := scheduler.NewSlurm("sbatch", squeue, "")
	pending, err := q.Pending(ctx, ids)
	if err != nil {
		return err
	}
	fmt.Printf("%d of %d jobs still queued or running\n", pending, len(ids))
	return nil
}
