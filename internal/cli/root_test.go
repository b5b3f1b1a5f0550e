package cli

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "ndbq", cmd.Use)
	assert.Contains(t, cmd.Long, "parameterized SQL")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"compile", "validate", "run", "test"}

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

func TestCompileCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	compileCmd, _, err := cmd.Find([]string{"compile"})
	require.NoError(t, err)

	outputFlag := compileCmd.Flags().Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)
	assert.NotNil(t, compileCmd.Flags().Lookup("schema"))
	assert.NotNil(t, compileCmd.Flags().Lookup("table"))
}

func TestRunCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	runCmd, _, err := cmd.Find([]string{"run"})
	require.NoError(t, err)

	dbFlag := runCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, ":memory:", dbFlag.DefValue)

	backendFlag := runCmd.Flags().Lookup("backend")
	require.NotNil(t, backendFlag)
	assert.Equal(t, BackendSQLite, backendFlag.DefValue)

	maxRowsFlag := runCmd.Flags().Lookup("max-rows")
	require.NotNil(t, maxRowsFlag)
	assert.Equal(t, "10000", maxRowsFlag.DefValue)
}

func TestTestCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	testCmd, _, err := cmd.Find([]string{"test"})
	require.NoError(t, err)

	updateFlag := testCmd.Flags().Lookup("update")
	require.NotNil(t, updateFlag)
	assert.Equal(t, "false", updateFlag.DefValue)

	filterFlag := testCmd.Flags().Lookup("filter")
	require.NotNil(t, filterFlag)
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
	cmd.SetArgs([]string{"--format", "invalid", "validate", "id = 1"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestNewLogger(t *testing.T) {
	buf := &bytes.Buffer{}
	quiet := newLogger(buf, false)
	quiet.Debug("hidden")
	quiet.Info("hidden")
	assert.Empty(t, buf.String())

	quiet.Warn("shown", "table", "Employee")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "table=Employee")

	buf.Reset()
	verbose := newLogger(buf, true)
	assert.True(t, verbose.Enabled(t.Context(), slog.LevelDebug))
	verbose.Debug("query prepared", "params", 2)
	assert.Contains(t, buf.String(), "query prepared")
	assert.Contains(t, buf.String(), "params=2")
}

func TestRootVerboseRun(t *testing.T) {
	defer slog.SetDefault(slog.Default())

	buf := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(errBuf)
	cmd.SetArgs([]string{"--verbose", "validate", "id = ?"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, buf.String(), "✓ id = ?")
	assert.Contains(t, errBuf.String(), "filter parsed")
}
