package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/defbrowser-cli/internal/logger"
)

func TestRootCmd_Use(t *testing.T) {
	assert.Equal(t, "defbrowser", rootCmd.Use)
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	assert.True(t, names["build"])
	assert.True(t, names["browse"])
	assert.True(t, names["version"])
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, flag)
	assert.Equal(t, "v", flag.Shorthand)
}

func TestRootCmd_VerboseEnablesLogger(t *testing.T) {
	defer func() {
		verboseFlag = false
		logger.SetVerbose(false)
		rootCmd.SetArgs(nil)
	}()

	rootCmd.SetOut(new(bytes.Buffer))
	rootCmd.SetArgs([]string{"version", "--verbose"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.True(t, logger.IsVerbose())
}
