package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	agentA = "00000000-0000-0000-0000-000000000001"
	agentB = "00000000-0000-0000-0000-000000000002"
	agentC = "00000000-0000-0000-0000-000000000003"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestPlan_PrintsOneLinePerBatch(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("firstName,phone,notes\n")
	for i := 0; i < 10; i++ {
		sb.WriteString("Name,555-000")
		sb.WriteByte(byte('0' + i))
		sb.WriteString(",\n")
	}
	path := writeFile(t, "leads.csv", sb.String())

	out, err := runCLI(t, "plan", "--file", path, "--agents", strings.Join([]string{agentA, agentB, agentC}, ","))
	require.NoError(t, err)

	var lines []planLine
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		var line planLine
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &line))
		lines = append(lines, line)
	}
	require.Len(t, lines, 3)

	counts := []int{lines[0].ItemCount, lines[1].ItemCount, lines[2].ItemCount}
	require.Equal(t, []int{4, 3, 3}, counts)
	require.Equal(t, agentA, lines[0].AgentID.String())
	require.Equal(t, agentC, lines[2].AgentID.String())
	require.Equal(t, "leads.csv", lines[1].FileName)
	require.Equal(t, "555-0000", lines[0].Items[0].Phone())
}

func TestPlan_ExitCodes(t *testing.T) {
	valid := writeFile(t, "ok.csv", "firstName,phone\nA,1\n")

	t.Run("invalid row", func(t *testing.T) {
		path := writeFile(t, "bad.csv", "firstName,phone\nA,1\n,2\n")
		_, err := runCLI(t, "plan", "--file", path, "--agents", agentA)
		require.Error(t, err)
		require.Equal(t, exitValidation, exitCode(err))
		require.Contains(t, err.Error(), "row 3")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, "notes.txt", "firstName,phone\nA,1\n")
		_, err := runCLI(t, "plan", "--file", path, "--agents", agentA)
		require.Equal(t, exitUsage, exitCode(err))
	})

	t.Run("bad agent id", func(t *testing.T) {
		_, err := runCLI(t, "plan", "--file", valid, "--agents", "bob")
		require.Equal(t, exitUsage, exitCode(err))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := runCLI(t, "plan", "--file", filepath.Join(t.TempDir(), "gone.csv"), "--agents", agentA)
		require.Equal(t, exitUsage, exitCode(err))
	})
}

func TestMigrate_UpAndDownOnSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "lists.db")
	dsn := "file:" + dbPath + "?_pragma=foreign_keys(1)&_time_format=sqlite"

	_, err := runCLI(t, "migrate", "up", "--driver", "sqlite", "--dsn", dsn)
	require.NoError(t, err)

	_, err = runCLI(t, "migrate", "down", "--driver", "sqlite", "--dsn", dsn)
	require.NoError(t, err)
}

func TestMigrate_RejectsUnknownDirection(t *testing.T) {
	_, err := runCLI(t, "migrate", "sideways", "--driver", "sqlite", "--dsn", "file::memory:")
	require.Error(t, err)
}

func TestMigrate_BadDriverIsDatabaseError(t *testing.T) {
	_, err := runCLI(t, "migrate", "up", "--driver", "mongo", "--dsn", "x")
	require.Equal(t, exitDB, exitCode(err))
}
