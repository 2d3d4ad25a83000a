package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "goconsole", cmd.Use)
	assert.Contains(t, cmd.Long, "session")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	paths := [][]string{
		{"login"}, {"logout"}, {"whoami"}, {"can"}, {"route"},
		{"users", "list"}, {"users", "status"}, {"users", "delete"}, {"users", "reset-password"},
		{"roles", "list"}, {"roles", "options"},
		{"menus", "list"}, {"menus", "options"},
		{"dicts", "list"}, {"dicts", "type"},
		{"logs", "list"}, {"logs", "export"},
		{"dashboard", "stats"}, {"dashboard", "health"}, {"dashboard", "metrics"}, {"dashboard", "trends"},
	}

	for _, path := range paths {
		sub, _, err := cmd.Find(path)
		require.NoError(t, err, "command %v should exist", path)
		assert.Equal(t, path[len(path)-1], sub.Name())
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verbose := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verbose)
	assert.Equal(t, "v", verbose.Shorthand)
	assert.Equal(t, "false", verbose.DefValue)

	output := cmd.PersistentFlags().Lookup("output")
	require.NotNil(t, output)
	assert.Equal(t, "text", output.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("config"))
	require.NotNil(t, cmd.PersistentFlags().Lookup("base-url"))
}

func TestInvalidOutputRejected(t *testing.T) {
	res := run("", "--output", "xml", "route", "/")
	require.Error(t, res.err)
	assert.Contains(t, res.err.Error(), "invalid output")
}

func TestParseStatus(t *testing.T) {
	for in, want := range map[string]int{"1": 1, "Normal": 1, "enabled": 1, "2": 2, "disabled": 2} {
		got, err := parseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, int(got), in)
	}
	_, err := parseStatus("archived")
	require.Error(t, err)
}
