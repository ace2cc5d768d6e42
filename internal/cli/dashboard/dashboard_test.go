package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/testutil"
	clitest "github.com/motoloc/motocrm/internal/testutil/cli"
)

func TestDashboardCommand(t *testing.T) {
	ctx, a := clitest.SetupCLITest(t)
	user := clitest.CreateTestUser(t, a)

	run := func(args ...string) testutil.CommandResult {
		return testutil.ExecuteCommand(t, ctx, DashboardCmd(), append(args, "--user", clitest.TestUserEmail)...)
	}

	res := run()
	require.NoError(t, res.Err, res.Stderr)
	assert.Contains(t, res.Stdout, "Total leads: 0")
	assert.Contains(t, res.Stdout, "no leads")

	cols, err := a.Columns.ListColumns(ctx, user.ID)
	require.NoError(t, err)
	card := testutil.CreateTestCard(t, a.Repo(), user.ID, cols[0].ID, "Ana")
	vip := testutil.CreateTestTag(t, a.Repo(), user.ID, "VIP", "#ff0000")
	require.NoError(t, a.Cards.AddTag(ctx, user.ID, card.ID, vip.ID))

	res = run()
	require.NoError(t, res.Err, res.Stderr)
	assert.Contains(t, res.Stdout, "Total leads: 1")
	assert.Contains(t, res.Stdout, "Tagged leads: 1 (100%)")
	assert.Contains(t, res.Stdout, cols[0].Name)
	assert.Contains(t, res.Stdout, "100.0%")
	assert.Contains(t, res.Stdout, "VIP")
	assert.Contains(t, res.Stdout, "Ana")

	res = run("--json", "--week-offset", "1")
	require.NoError(t, res.Err)
	data := testutil.ParseJSON(t, res.Stdout)["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total_cards"])
	assert.Len(t, data["weekly_chart"], 7)
	assert.Len(t, data["hourly"], 24)
}
