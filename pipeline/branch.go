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

// Package pipeline contains the orchestration core: per-sample branch
// selection, construction of the dependency-chained job DAG for each sample,
// and submission of that DAG to the cluster scheduler.
package pipeline

import (
	"github.com/grailbio/mosaic/samplelist"
)

// Kind is the analysis variant applied to a sample.
type Kind int

const (
	// SingleSample analyses a sample on its own.
	SingleSample Kind = iota
	// Trio analyses the proband jointly with both parents.
	Trio
)

func (k Kind) String() string {
	if k == Trio {
		return "trio"
	}
	return "single"
}

// Branch is one sample's entry into the per-sample stage chains, together
// with the analysis variant chosen for it.
type Branch struct {
	Sample string
	Gender samplelist.Gender
	Kind   Kind
	BAMDir string
	// MotherID and FatherID are set only on a Trio branch; the trio-aware
	// mosaic detection command needs the parent BAMs.
	MotherID string
	FatherID string
}

// SelectBranches enumerates the branches for one family: the proband (Trio
// when both parents are present, SingleSample otherwise), then a
// SingleSample branch per present parent. Absent relatives are never
// emitted, so no branch ever carries an empty sample id.
func SelectBranches(fam samplelist.Family) []Branch {
	proband := Branch{
		Sample: fam.ProbandID,
		Gender: fam.Gender,
		Kind:   SingleSample,
		BAMDir: fam.BAMDir,
	}
	if fam.HasMother() && fam.HasFather() {
		proband.Kind = Trio
		proband.MotherID = fam.MotherID
		proband.FatherID = fam.FatherID
	}
	branches := []Branch{proband}
	if fam.HasMother() {
		branches = append(branches, Branch{
			Sample: fam.MotherID,
			Gender: samplelist.Female,
			Kind:   SingleSample,
			BAMDir: fam.BAMDir,
		})
	}
	if fam.HasFather() {
		branches = append(branches, Branch{
			Sample: fam.FatherID,
			Gender: samplelist.Male,
			Kind:   SingleSample,
			BAMDir: fam.BAMDir,
		})
	}
	return branches
}
