package services_test

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/agentlists/modules/lists"
	"github.com/iota-uz/agentlists/modules/lists/domain/aggregates/agent"
	"github.com/iota-uz/agentlists/modules/lists/services"
	"github.com/iota-uz/agentlists/pkg/itf"
)

type fixture struct {
	env     *itf.TestEnvironment
	lists   *services.ListService
	agents  *services.AgentService
	tempDir string
}

// steppingClock advances one minute per call so every upload has a distinct
// creation time.
func steppingClock() func() time.Time {
	current := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		current = current.Add(time.Minute)
		return current
	}
}

func setup(t *testing.T) *fixture {
	t.Helper()
	tempDir := t.TempDir()
	env := itf.NewTestContext().
		WithModules(lists.NewModule(&lists.ModuleOptions{
			Logger:  itf.DiscardLogger(),
			TempDir: tempDir,
			Clock:   steppingClock(),
		})).
		Build(t)

	return &fixture{
		env:     env,
		lists:   itf.GetService[services.ListService](env),
		agents:  itf.GetService[services.AgentService](env),
		tempDir: tempDir,
	}
}

func (f *fixture) createAgents(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		a, err := f.agents.Create(f.env.Ctx, &agent.CreateDTO{
			Name:     fmt.Sprintf("Agent %d", i),
			Email:    fmt.Sprintf("agent%d@example.com", i),
			Mobile:   fmt.Sprintf("+1555000%04d", i),
			Password: "secret",
		})
		require.NoError(t, err)
		ids = append(ids, a.ID())
	}
	return ids
}

func (f *fixture) requireTempDirEmpty(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.tempDir)
	require.NoError(t, err)
	require.Empty(t, entries, "upload temp files must be released")
}

func csvWithRows(n int) string {
	content := "firstName,phone,notes\n"
	for i := 0; i < n; i++ {
		content += fmt.Sprintf("name-%d,555-%04d,note %d\n", i, i, i)
	}
	return content
}
