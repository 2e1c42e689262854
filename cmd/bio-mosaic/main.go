package main

import (
	"fmt"

	"github.com/grailbio/base/cmdutil"
	"v.io/x/lib/cmdline"
)

type commonFlags struct {
	sampleList *string
	outputDir  *string
	configPath *string
}

func registerCommonFlags(cmd *cmdline.Command) commonFlags {
	return commonFlags{
		sampleList: cmd.Flags.String("sample-list", "", "Input sample list: one header line, then one family per line (required)"),
		outputDir:  cmd.Flags.String("output-dir", "", "Run output directory; per-sample results and consolidated call sets live here (required)"),
		configPath: cmd.Flags.String("config", "", "Key-value config file sourced into the environment (required)"),
	}
}

func (f commonFlags) check() error {
	if *f.sampleList == "" || *f.outputDir == "" {
		return fmt.Errorf("-sample-list and -output-dir are required")
	}
	return nil
}

func newCmdRun() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "run",
		Short: "Submit every family's chains, wait, then aggregate",
	}
	flags := registerCommonFlags(cmd)
	quickcheck := cmd.Flags.Bool("quickcheck", false, "Read each sample's BAM header before submitting anything for it")
	aggViaScheduler := cmd.Flags.Bool("aggregate-via-scheduler", false, `Instead of polling for completion, submit the aggregation pass
as one more cluster job depending on every leaf job`)
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := flags.check(); err != nil {
			return err
		}
		if *flags.configPath == "" {
			return fmt.Errorf("-config is required")
		}
		return run(flags, *quickcheck, *aggViaScheduler)
	})
	return cmd
}

func newCmdSubmit() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "submit",
		Short: "Submission phase only: build and submit every family's chains",
	}
	flags := registerCommonFlags(cmd)
	quickcheck := cmd.Flags.Bool("quickcheck", false, "Read each sample's BAM header before submitting anything for it")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if err := flags.check(); err != nil {
			return err
		}
		if *flags.configPath == "" {
			return fmt.Errorf("-config is required")
		}
		_, _, err := submit(flags, *quickcheck)
		return err
	})
	return cmd
}

func newCmdAggregate() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "aggregate",
		Short: "Aggregation pass only: merge existing per-sample results into the consolidated call sets",
	}
	// Aggregation reads only the sample list and the output directory, so it
	// takes no -config flag.
	sampleList := cmd.Flags.String("sample-list", "", "Input sample list: one header line, then one family per line (required)")
	outputDir := cmd.Flags.String("output-dir", "", "Run output directory; per-sample results and consolidated call sets live here (required)")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *sampleList == "" || *outputDir == "" {
			return fmt.Errorf("-sample-list and -output-dir are required")
		}
		return aggregateResults(*sampleList, *outputDir)
	})
	return cmd
}

func newCmdStatus() *cmdline.Command {
	cmd := &cmdline.Command{
		Name:  "status",
		Short: "Report how many of the run's submitted jobs are still queued or running",
	}
	outputDir := cmd.Flags.String("output-dir", "", "Run output directory of a previous submit (required)")
	squeue := cmd.Flags.String("squeue", "squeue", "squeue binary to query")
	cmd.Runner = cmdutil.RunnerFunc(func(env *cmdline.Env, argv []string) error {
		if *outputDir == "" {
			return fmt.Errorf("-output-dir is required")
		}
		return status(*outputDir, *squeue)
	})
	return cmd
}

func main() {
	cmdline.HideGlobalFlagsExcept()
	cmdline.Main(&cmdline.Command{
		Name:     "bio-mosaic",
		Short:    "Orchestrate the mosaic variant-calling pipeline on a SLURM cluster",
		LookPath: false,
		Children: []*cmdline.Command{
			newCmdRun(),
			newCmdSubmit(),
			newCmdAggregate(),
			newCmdStatus(),
		},
	})
}
