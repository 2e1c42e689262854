// Copyright 2020 Grail Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

/*
bio-mosaic orchestrates the mosaic variant-calling pipeline across a SLURM
cluster. For every family in a sample list (proband plus optional parents) it
selects the applicable analysis branches, submits the per-sample stage chains
as dependency-linked batch jobs (MosaicHunter, Mutect2 + MosaicForecast, and
a scattered germline caller), and finally merges each sample's result files
into run-wide consolidated call sets.

The orchestrator never runs a calling tool itself and never waits for an
individual cluster job inside the submission loop; stage ordering is enforced
entirely by scheduler dependency conditions.

Sample usage:

bio-mosaic run \
    -sample-list families.tsv \
    -output-dir /results/run42 \
    -config pipeline.env

The sample list is tab-delimited with a header line:

    bam_dir proband gender mother father

mother and father may be blank (or ".", "-", "NA") for singletons.
*/
package main
