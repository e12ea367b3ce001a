package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "reconcile", cmd.Use)
	assert.Contains(t, cmd.Long, "RDF")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"diff", "patch", "hash", "canon"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestDiffCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	diffCmd, _, err := cmd.Find([]string{"diff"})
	require.NoError(t, err)

	engineFlag := diffCmd.Flags().Lookup("engine")
	require.NotNil(t, engineFlag)
	assert.Equal(t, "structural", engineFlag.DefValue)

	arrayFlag := diffCmd.Flags().Lookup("array-diff")
	require.NotNil(t, arrayFlag)
	assert.Equal(t, "lcs", arrayFlag.DefValue)

	require.NotNil(t, diffCmd.Flags().Lookup("no-moves"))
	require.NotNil(t, diffCmd.Flags().Lookup("no-text-diff"))
	require.NotNil(t, diffCmd.Flags().Lookup("actor"))
	require.NotNil(t, diffCmd.Flags().Lookup("timestamp"))
}

func TestPatchCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	patchCmd, _, err := cmd.Find([]string{"patch"})
	require.NoError(t, err)

	engineFlag := patchCmd.Flags().Lookup("engine")
	require.NotNil(t, engineFlag)
	assert.Equal(t, "structural", engineFlag.DefValue)

	validateFlag := patchCmd.Flags().Lookup("validate")
	require.NotNil(t, validateFlag)
	assert.Equal(t, "false", validateFlag.DefValue)
}

func TestHashCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	hashCmd, _, err := cmd.Find([]string{"hash"})
	require.NoError(t, err)

	formFlag := hashCmd.Flags().Lookup("form")
	require.NotNil(t, formFlag)
	assert.Equal(t, "stable_json", formFlag.DefValue)

	require.NotNil(t, hashCmd.Flags().Lookup("canon-config"))
}

func TestCanonCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	canonCmd, _, err := cmd.Find([]string{"canon"})
	require.NoError(t, err)

	rdfFlag := canonCmd.Flags().Lookup("rdf")
	require.NotNil(t, rdfFlag)
	assert.Equal(t, "false", rdfFlag.DefValue)

	algoFlag := canonCmd.Flags().Lookup("algorithm")
	require.NotNil(t, algoFlag)
	assert.Equal(t, "urdna2015", algoFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestFormatValidationIntegration(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "invalid", "canon", "doc.json"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}
