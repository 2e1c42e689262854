package samplelist

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const header = "bam_dir\tproband\tgender\tmother\tfather\n"

func TestParseTrio(t *testing.T) {
	fams, err := parse(strings.NewReader(header+"/bam/fam1\tP1\tM\tMO1\tFA1\n"), "test")
	assert.NoError(t, err)
	assert.Equal(t, []Family{{
		BAMDir:    "/bam/fam1",
		ProbandID: "P1",
		Gender:    Male,
		MotherID:  "MO1",
		FatherID:  "FA1",
	}}, fams)
	assert.True(t, fams[0].HasMother())
	assert.True(t, fams[0].HasFather())
	assert.Equal(t, []string{"P1", "MO1", "FA1"}, fams[0].Samples())
}

func TestParseSingleton(t *testing.T) {
	// Placeholder parent columns must come out as absent, not as ids.
	for _, row := range []string{
		"/bam/fam2\tP2\tF\n",
		"/bam/fam2\tP2\tF\t.\t.\n",
		"/bam/fam2\tP2\tF\tNA\tNA\n",
		"/bam/fam2\tP2\tF\t-\t-\n",
	} {
		fams, err := parse(strings.NewReader(header+row), "test")
		assert.NoError(t, err)
		assert.Len(t, fams, 1)
		assert.False(t, fams[0].HasMother(), row)
		assert.False(t, fams[0].HasFather(), row)
		assert.Equal(t, []string{"P2"}, fams[0].Samples())
	}
}

func TestParseMotherOnly(t *testing.T) {
	fams, err := parse(strings.NewReader(header+"/bam/fam3 P3 F MO3\n"), "test")
	assert.NoError(t, err)
	assert.True(t, fams[0].HasMother())
	assert.False(t, fams[0].HasFather())
	assert.Equal(t, Female, fams[0].Gender)
}

func TestMalformedRowSkipped(t *testing.T) {
	in := header +
		"/bam/fam1\tP1\n" + // missing gender
		"/bam/fam2\tP2\tX\n" + // bad gender
		"/bam/fam3\tP3\tF\n"
	fams, err := parse(strings.NewReader(in), "test")
	assert.NoError(t, err)
	if assert.Len(t, fams, 1) {
		assert.Equal(t, "P3", fams[0].ProbandID)
	}
}

func TestParseLineErrors(t *testing.T) {
	_, err := parseLine("/bam/fam1 P1", 2)
	merr, ok := err.(*MalformedRecordError)
	if assert.True(t, ok) {
		assert.Equal(t, 2, merr.Line)
	}
}

func TestHeaderAndBlankLines(t *testing.T) {
	in := header + "\n/bam/fam1 P1 M\n\n"
	fams, err := parse(strings.NewReader(in), "test")
	assert.NoError(t, err)
	assert.Len(t, fams, 1)
}

func TestParseGender(t *testing.T) {
	for in, want := range map[string]Gender{
		"M": Male, "m": Male, "male": Male,
		"F": Female, "f": Female, "FEMALE": Female,
	} {
		g, err := ParseGender(in)
		assert.NoError(t, err)
		assert.Equal(t, want, g)
	}
	_, err := ParseGender("U")
	assert.Error(t, err)
}
