package followup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/testutil"
	clitest "github.com/motoloc/motocrm/internal/testutil/cli"
)

func TestFollowUpCommands(t *testing.T) {
	ctx, a := clitest.SetupCLITest(t)
	user := clitest.CreateTestUser(t, a)

	run := func(args ...string) testutil.CommandResult {
		return testutil.ExecuteCommand(t, ctx, FollowUpCmd(), append(args, "--user", clitest.TestUserEmail)...)
	}

	// ============================================================================
	// steps
	// ============================================================================

	res := run("list", "--quiet")
	require.NoError(t, res.Err, res.Stderr)
	ids := strings.Fields(res.Stdout)
	require.Len(t, ids, 4, "default steps are seeded")

	res = run("list")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "1 days")
	assert.Contains(t, res.Stdout, "15 days")

	res = run("update", "--id", ids[0], "--delay", "0", "--unit", "minutes", "--message", "Oi!")
	require.NoError(t, res.Err, res.Stderr)
	assert.Contains(t, res.Stdout, "0 minutes")

	res = run("update", "--id", ids[0], "--unit", "weeks")
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(res.Err))

	res = run("update", "--id", ids[0], "--delay", "-1")
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(res.Err))

	res = run("toggle", "--id", ids[1], "--json")
	require.NoError(t, res.Err)
	data := testutil.ParseJSON(t, res.Stdout)["data"].(map[string]any)
	assert.Equal(t, false, data["active"])

	// ============================================================================
	// contacts
	// ============================================================================

	res = run("contact", "add", "--phone", "5511999990000", "--name", "Ana", "--quiet")
	require.NoError(t, res.Err, res.Stderr)
	contactID := strings.TrimSpace(res.Stdout)

	res = run("due", "--quiet")
	require.NoError(t, res.Err)
	assert.Equal(t, contactID, strings.TrimSpace(res.Stdout), "step 1 has no delay")

	res = run("contact", "sent", "--id", contactID, "--idx", "1")
	require.NoError(t, res.Err, res.Stderr)
	assert.Contains(t, res.Stdout, "marked step 1 sent")

	res = run("due")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "No follow-ups due")

	res = run("contact", "finish", "--id", contactID)
	require.NoError(t, res.Err)

	res = run("contact", "sent", "--id", contactID, "--idx", "3")
	assert.Equal(t, cli.ExitValidation, cli.ExitCode(res.Err))

	res = run("contact", "list", "--open")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "No contacts found")

	res = run("contact", "list")
	require.NoError(t, res.Err)
	assert.Contains(t, res.Stdout, "finished")

	contacts, err := a.FollowUps.ListContacts(ctx, user.ID, false)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
}
