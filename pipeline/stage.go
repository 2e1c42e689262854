package pipeline

import (
	"fmt"
	"path/filepath"

	"github.com/grailbio/mosaic/config"
)

// Stage names. They key the per-sample JobID maps and the scheduler job
// names, and fix the per-stage output naming convention under the run's
// output directory.
const (
	StageMosaicHunter = "mosaichunter"
	StageMutect2      = "mutect2"
	StageFilterMutect = "filter-mutect"
	StageMFExtract    = "mf-extract"
	StageMFFeatures   = "mf-features"
	StageMFPredict    = "mf-predict"
	StageHCScatter    = "hc-scatter"
	StageHCGather     = "hc-gather"
)

// GermlinePartitions is the scatter width of the germline chain: one
// partition per chromosome (1-22, X, Y).
const GermlinePartitions = 24

// Opts carries the run-wide settings every command builder needs.
type Opts struct {
	Config config.Config
	// OutDir is the run's output directory; per-sample result files and the
	// consolidated call sets live here.
	OutDir string
}

// bamPath is the fixed location of a sample's alignment within its family's
// BAM directory.
func bamPath(bamDir, sample string) string {
	return filepath.Join(bamDir, sample+".bam")
}

func (o Opts) mosaicHunterArgv(b Branch) []string {
	argv := []string{
		"java", "-jar", o.Config.MosaicHunter, "genome",
		"-P", "input_file=" + bamPath(b.BAMDir, b.Sample),
		"-P", "sex=" + b.Gender.String(),
		"-P", "reference_file=" + o.Config.ReferenceFasta,
		"-P", "output_dir=" + filepath.Join(o.OutDir, b.Sample+".mosaichunter"),
	}
	if b.Kind == Trio {
		argv = append(argv,
			"-P", "mode=trio",
			"-P", "father_bam_file="+bamPath(b.BAMDir, b.FatherID),
			"-P", "mother_bam_file="+bamPath(b.BAMDir, b.MotherID))
	} else {
		argv = append(argv, "-P", "mode=single")
	}
	return argv
}

func (o Opts) mutect2Argv(b Branch) []string {
	return []string{
		o.Config.GATK, "Mutect2",
		"-R", o.Config.ReferenceFasta,
		"-I", bamPath(b.BAMDir, b.Sample),
		"-tumor", b.Sample,
		"-O", filepath.Join(o.OutDir, b.Sample+".mutect2.vcf.gz"),
	}
}

func (o Opts) filterMutectArgv(b Branch) []string {
	return []string{
		o.Config.GATK, "FilterMutectCalls",
		"-R", o.Config.ReferenceFasta,
		"-V", filepath.Join(o.OutDir, b.Sample+".mutect2.vcf.gz"),
		"-O", filepath.Join(o.OutDir, b.Sample+".mutect2.filtered.vcf"),
	}
}

func (o Opts) mfExtractArgv(b Branch) []string {
	return []string{
		"python", filepath.Join(o.Config.MosaicForecast, "MuTect2-PoN_filter.py"),
		b.Sample,
		filepath.Join(o.OutDir, b.Sample+".mutect2.vcf.gz"),
		filepath.Join(o.OutDir, b.Sample+".mosaicforecast.input.bed"),
	}
}

func (o Opts) mfFeaturesArgv(b Branch) []string {
	return []string{
		"python", filepath.Join(o.Config.MosaicForecast, "ReadLevel_Features_extraction.py"),
		filepath.Join(o.OutDir, b.Sample+".mosaicforecast.input.bed"),
		filepath.Join(o.OutDir, b.Sample+".mosaicforecast.features"),
		b.BAMDir,
		o.Config.ReferenceFasta,
	}
}

func (o Opts) mfPredictArgv(b Branch) []string {
	return []string{
		"Rscript", filepath.Join(o.Config.MosaicForecast, "Prediction.R"),
		filepath.Join(o.OutDir, b.Sample+".mosaicforecast.features"),
		filepath.Join(o.Config.MosaicForecast, "models_trained", "250x_rf_PCAandphase.rds"),
		filepath.Join(o.OutDir, b.Sample+".mosaicforecast.predictions.tsv"),
	}
}

func (o Opts) hcScatterArgv(b Branch) []string {
	// Each array element calls one genome partition; the partition's interval
	// list is indexed by the scheduler-provided array task id.
	return []string{
		o.Config.GATK, "HaplotypeCaller",
		"-R", o.Config.ReferenceFasta,
		"-I", bamPath(b.BAMDir, b.Sample),
		"-L", filepath.Join(o.Config.GermlineConfig, "scatter", "${SLURM_ARRAY_TASK_ID}.interval_list"),
		"-O", filepath.Join(o.OutDir, b.Sample+".hc.${SLURM_ARRAY_TASK_ID}.vcf.gz"),
	}
}

func (o Opts) hcGatherArgv(b Branch) []string {
	argv := []string{o.Config.GATK, "MergeVcfs"}
	for i := 1; i <= GermlinePartitions; i++ {
		argv = append(argv, "-I", filepath.Join(o.OutDir, fmt.Sprintf("%s.hc.%d.vcf.gz", b.Sample, i)))
	}
	return append(argv, "-O", filepath.Join(o.OutDir, b.Sample+".germline.vcf.gz"))
}
