package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gtcl-project/gtcl"
)

func TestExitCodeRoundTrip(t *testing.T) {
	i := tcl.New()
	defer i.Close()
	i.RegisterCommand("exit", cmdExit)

	_, err := i.Eval("exit 7")
	require.Error(t, err)

	code, ok := exitCode(err)
	require.True(t, ok)
	require.Equal(t, 7, code)
}

func TestExitCodeDefaultsToZero(t *testing.T) {
	i := tcl.New()
	defer i.Close()
	i.RegisterCommand("exit", cmdExit)

	_, err := i.Eval("exit")
	require.Error(t, err)

	code, ok := exitCode(err)
	require.True(t, ok)
	require.Equal(t, 0, code)
}

func TestExitCodeIgnoresOrdinaryErrors(t *testing.T) {
	i := tcl.New()
	defer i.Close()

	_, err := i.Eval("error boom")
	require.Error(t, err)

	_, ok := exitCode(err)
	require.False(t, ok)
}
