package exporter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCommandArgsSubstitutesToken(t *testing.T) {
	args, err := buildCommandArgs("viewer --input STLFILE", "/tmp/out.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer", "--input", "/tmp/out.stl"}, args)
}

func TestBuildCommandArgsSubstitutesEveryOccurrence(t *testing.T) {
	args, err := buildCommandArgs("cp STLFILE STLFILE.bak", "/tmp/out.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"cp", "/tmp/out.stl", "/tmp/out.stl.bak"}, args)
}

func TestBuildCommandArgsSubstitutesInsideArgument(t *testing.T) {
	args, err := buildCommandArgs("sh -c 'slice STLFILE && notify'", "/tmp/out.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"sh", "-c", "slice /tmp/out.stl && notify"}, args)
}

func TestBuildCommandArgsAppendsWhenTokenAbsent(t *testing.T) {
	args, err := buildCommandArgs("meshlab", "/tmp/out.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"meshlab", "/tmp/out.stl"}, args)
}

func TestBuildCommandArgsQuoting(t *testing.T) {
	args, err := buildCommandArgs(`viewer "my arg" STLFILE`, "/tmp/out.stl")
	require.NoError(t, err)
	assert.Equal(t, []string{"viewer", "my arg", "/tmp/out.stl"}, args)
}

func TestBuildCommandArgsEmptyCommand(t *testing.T) {
	args, err := buildCommandArgs("", "/tmp/out.stl")
	require.NoError(t, err)
	assert.Nil(t, args)
}

func TestBuildCommandArgsUnbalancedQuote(t *testing.T) {
	_, err := buildCommandArgs(`viewer "unterminated`, "/tmp/out.stl")
	assert.Error(t, err)
}
