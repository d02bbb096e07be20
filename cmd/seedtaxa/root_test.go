package main

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func findCommand(t *testing.T, root *cobra.Command, name string) *cobra.Command {
	t.Helper()
	for _, c := range root.Commands() {
		if c.Name() == name {
			return c
		}
	}
	t.Fatalf("subcommand %q not found", name)
	return nil
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	cmd := getRootCmd()
	require.NotNil(t, cmd)

	for _, name := range []string{
		"init", "check", "upgrade", "match", "resolve", "find", "maintain",
	} {
		findCommand(t, cmd, name)
	}
}

func TestRootCommand_PersistentFlags(t *testing.T) {
	cmd := getRootCmd()

	for _, name := range []string{
		"config", "db", "log-level", "log-format", "log-destination",
	} {
		flag := cmd.PersistentFlags().Lookup(name)
		require.NotNil(t, flag, "--%s flag should exist", name)
		assert.Equal(t, "string", flag.Value.Type())
	}

	// persistent flags are inherited by subcommands
	check := findCommand(t, cmd, "check")
	assert.NotNil(t, check.InheritedFlags().Lookup("db"))
}

func TestRootCommand_Help(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--help"})
	require.NoError(t, cmd.Execute())

	helpText := buf.String()
	assert.Contains(t, helpText, "seedtaxa")
	assert.Contains(t, helpText, "taxonomy")
	assert.Contains(t, helpText, "Available Commands")
}

func TestCheckCommand_RequiresCandidateArg(t *testing.T) {
	cmd := getRootCmd()

	buf := new(bytes.Buffer)
	cmd.SetErr(buf)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"check"})
	assert.Error(t, cmd.Execute())
}

func TestUpgradeCommand_Flags(t *testing.T) {
	cmd := getRootCmd()
	upgrade := findCommand(t, cmd, "upgrade")

	yes := upgrade.Flags().Lookup("yes")
	require.NotNil(t, yes)
	assert.Equal(t, "bool", yes.Value.Type())
	assert.NotNil(t, upgrade.Flags().Lookup("json"))
}

func TestMatchCommand_HasSubcommands(t *testing.T) {
	cmd := getRootCmd()
	match := findCommand(t, cmd, "match")

	for _, c := range match.Commands() {
		assert.NotNil(t, c.Flags().Lookup("update"),
			"%s should have --update", c.Name())
		assert.NotNil(t, c.Flags().Lookup("show-options"),
			"%s should have --show-options", c.Name())
	}
	require.Len(t, match.Commands(), 2)
}

func TestFindCommand_Flags(t *testing.T) {
	cmd := getRootCmd()
	find := findCommand(t, cmd, "find")

	for _, name := range []string{
		"id", "rank", "genus", "species", "any", "with-status",
		"limit", "offset",
	} {
		require.NotNil(t, find.Flags().Lookup(name),
			"--%s flag should exist", name)
	}
	assert.Equal(t, "bool", find.Flags().Lookup("with-status").Value.Type())
	assert.Equal(t, "int64", find.Flags().Lookup("id").Value.Type())
}

func TestMaintainCommand_ExclusiveFlags(t *testing.T) {
	cmd := getRootCmd()
	maintain := findCommand(t, cmd, "maintain")

	require.NotNil(t, maintain.Flags().Lookup("prune-only"))
	require.NotNil(t, maintain.Flags().Lookup("reorder-only"))
}
