package theme

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/testutil"
)

func setupService(t *testing.T) Service {
	t.Helper()
	_, repo := testutil.SetupTestRepo(t)
	return NewService(repo, testutil.NewEventRecorder())
}

func TestGet_DefaultsWhenUnset(t *testing.T) {
	t.Parallel()
	svc := setupService(t)

	ts, err := svc.Get(context.Background(), "u1")
	require.NoError(t, err)

	want := Defaults()
	want.UserID = "u1"
	if diff := cmp.Diff(want, *ts); diff != "" {
		t.Errorf("Get() mismatch (-want +got):\n%s", diff)
	}
}

func TestSave_MergesOverDefaults(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	partial := &models.ThemeSettings{UserID: "u1"}
	partial.Brand.Gold = "#AABBCC"
	partial.Dark.Background = " #000000 "

	got, err := svc.Save(ctx, partial)
	require.NoError(t, err)
	assert.Equal(t, "#AABBCC", got.Brand.Gold)
	assert.Equal(t, "#000000", got.Dark.Background, "values are trimmed")
	assert.Equal(t, "#002736", got.Brand.Navy, "unset fields keep defaults")
	assert.Equal(t, Defaults().Light.Ring, got.Light.Ring)

	require.NoError(t, svc.Reset(ctx, "u1"))
	got, err = svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "#91734E", got.Brand.Gold)
}

func TestSave_RejectsInvalidColor(t *testing.T) {
	t.Parallel()
	svc := setupService(t)

	bad := &models.ThemeSettings{UserID: "u1"}
	bad.Light.Card = "white"

	_, err := svc.Save(context.Background(), bad)
	require.ErrorIs(t, err, ErrInvalidColor)
	assert.Contains(t, err.Error(), "light_card")
}

func TestCSSVariables(t *testing.T) {
	t.Parallel()
	svc := setupService(t)
	ctx := context.Background()

	vars, err := svc.CSSVariables(ctx, "u1", ModeLight)
	require.NoError(t, err)
	require.Len(t, vars, 3+27)
	assert.Equal(t, CSSVar{Name: "--brand-navy", Value: "197 100% 11%"}, vars[0])
	assert.Equal(t, "--background", vars[3].Name)
	assert.Equal(t, "0 0% 100%", vars[3].Value)
	assert.Equal(t, "--sidebar-primary-foreground", vars[3+22].Name)

	dark, err := svc.CSSVariables(ctx, "u1", ModeDark)
	require.NoError(t, err)
	assert.Equal(t, "197 100% 11%", dark[3].Value, "dark background is navy")

	_, err = svc.CSSVariables(ctx, "u1", "sepia")
	assert.ErrorIs(t, err, ErrInvalidMode)
}

func TestStylesheet(t *testing.T) {
	t.Parallel()
	svc := setupService(t)

	css, err := svc.Stylesheet(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(css, ":root {\n"))
	assert.Contains(t, css, ".dark {\n")
	assert.Contains(t, css, "  --card-foreground: ")
}

func TestExportImportRoundTrip(t *testing.T) {
	ts := Defaults()
	ts.Brand.Pink = "#123456"

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, &ts))
	assert.Contains(t, buf.String(), "#123456")

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, ts.Brand, got.Brand)
	assert.Equal(t, ts.Dark, got.Dark)
}

func TestImport_Errors(t *testing.T) {
	_, err := Import(strings.NewReader("brand:\n  navi: '#000000'\n"))
	assert.ErrorIs(t, err, ErrInvalidFile, "unknown keys are rejected")

	_, err = Import(strings.NewReader("light:\n  card: blue\n"))
	assert.ErrorIs(t, err, ErrInvalidColor)
}
