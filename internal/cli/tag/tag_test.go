package tag

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/testutil"
	clitest "github.com/motoloc/motocrm/internal/testutil/cli"
)

// TestTagCommands tests the tag create, list, update and delete commands
func TestTagCommands(t *testing.T) {
	ctx, a := clitest.SetupCLITest(t)
	user := clitest.CreateTestUser(t, a)

	run := func(args ...string) testutil.CommandResult {
		return testutil.ExecuteCommand(t, ctx, TagCmd(), append(args, "--user", clitest.TestUserEmail)...)
	}

	res := run("create", "--name", "VIP", "--color", "#FF0000", "--quiet")
	require.NoError(t, res.Err, res.Stderr)
	vipID := strings.TrimSpace(res.Stdout)

	res = run("create", "--name", "Helmet", "--json")
	require.NoError(t, res.Err)
	data := testutil.ParseJSON(t, res.Stdout)["data"].(map[string]any)
	assert.Equal(t, models.DefaultTagColor, data["color"])

	for _, tt := range []struct {
		name string
		args []string
	}{
		{"missing name", []string{"create", "--color", "#FF0000"}},
		{"bad color", []string{"create", "--name", "X", "--color", "red"}},
		{"update without id", []string{"update", "--name", "X"}},
	} {
		t.Run(tt.name, func(t *testing.T) {
			res := run(tt.args...)
			assert.Equal(t, cli.ExitUsage, cli.ExitCode(res.Err))
		})
	}

	res = run("list")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "[Helmet]")
	assert.Contains(t, res.Stdout, "[VIP]")
	assert.Less(t, strings.Index(res.Stdout, "Helmet"), strings.Index(res.Stdout, "VIP"), "sorted by name")

	res = run("update", "--id", vipID, "--color", "#00ff00")
	require.NoError(t, res.Err)
	got, err := a.Tags.GetTag(ctx, user.ID, vipID)
	require.NoError(t, err)
	assert.Equal(t, "VIP", got.Name)
	assert.Equal(t, "#00ff00", got.Color)

	res = run("delete", "--id", vipID)
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "deleted")

	res = run("delete", "--id", vipID)
	assert.Equal(t, cli.ExitNotFound, cli.ExitCode(res.Err))
}
