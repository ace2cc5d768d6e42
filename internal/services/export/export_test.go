package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/models"
	"github.com/motoloc/motocrm/internal/testutil"
)

func ptr[T any](v T) *T { return &v }

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return t
}

var now = day("2025-03-20 12:00")

func cards() []*models.Card {
	return []*models.Card{
		{ID: "1", Name: "Ana Souza", Phone: ptr("11 99999-0001"), TagID: ptr("t1"), ColumnID: "a", CreatedAt: day("2025-03-19 08:00")},
		{ID: "2", Name: "Bruno", Phone: ptr("21 98888-0002"), ColumnID: "b", CreatedAt: day("2025-03-05 08:00")},
		{ID: "3", Name: "Carla", ColumnID: "a", TagID: ptr("t2"), CreatedAt: day("2025-02-10 08:00")},
	}
}

func ids(cs []*models.Card) []string {
	out := []string{}
	for _, c := range cs {
		out = append(out, c.ID)
	}
	return out
}

// ============================================================================
// Filter
// ============================================================================

func TestFilterApply(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero filter", Filter{}, []string{"1", "2", "3"}},
		{"all", Filter{Date: DateAll}, []string{"1", "2", "3"}},
		{"last7", Filter{Date: DateLast7}, []string{"1"}},
		{"last30", Filter{Date: DateLast30}, []string{"1", "2"}},
		{"this month", Filter{Date: DateThisMonth}, []string{"1", "2"}},
		{"range is inclusive", Filter{Date: DateRange, Start: ptr(day("2025-02-10 00:00")), End: ptr(day("2025-03-05 00:00"))}, []string{"2", "3"}},
		{"name case-insensitive", Filter{Name: "ana"}, []string{"1"}},
		{"phone contains", Filter{Phone: "98888"}, []string{"2"}},
		{"phone filter skips cards without phone", Filter{Phone: "9"}, []string{"1", "2"}},
		{"column", Filter{ColumnID: "a"}, []string{"1", "3"}},
		{"primary tag in set", Filter{TagIDs: []string{"t2", "zz"}}, []string{"3"}},
		{"combined", Filter{Date: DateThisMonth, ColumnID: "a"}, []string{"1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.filter.Apply(cards(), now, time.UTC)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestFilterApply_Errors(t *testing.T) {
	t.Parallel()

	_, err := Filter{Date: "yesterday"}.Apply(nil, now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidDateMode)

	_, err = Filter{Date: DateRange, Start: ptr(now)}.Apply(nil, now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = Filter{Date: DateRange, Start: ptr(now), End: ptr(now.AddDate(0, 0, -2))}.Apply(nil, now, time.UTC)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

// ============================================================================
// Layout
// ============================================================================

func TestParseFields(t *testing.T) {
	t.Parallel()

	got, err := ParseFields(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultFields, got)

	got, err = ParseFields([]string{"created_at", "name"})
	require.NoError(t, err)
	assert.Equal(t, []Field{FieldCreatedAt, FieldName}, got)

	_, err = ParseFields([]string{"email"})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestBuildTable(t *testing.T) {
	t.Parallel()
	cs := cards()[:2]
	cs[0].Tag = &models.Tag{ID: "t1", Name: "VIP"}
	cs[0].VisitDate = ptr("2025-03-25")

	table := BuildTable(cs, []Field{FieldName, FieldVisitDate, FieldCreatedAt}, map[string]string{"a": "New Leads"}, time.UTC)

	assert.Equal(t, []string{"Name", "Visit Date", "Created At", "Column", "Tag"}, table.Headers)
	assert.Equal(t, [][]string{
		{"Ana Souza", "2025-03-25", "19/03/2025 08:00", "New Leads", "VIP"},
		{"Bruno", "", "05/03/2025 08:00", "", ""},
	}, table.Rows)
}

func TestFileName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "leads_20-03-2025_12-00.csv", FileName(now, "csv"))
	assert.Equal(t, "leads_01-12-2025_09-05.pdf", FileName(day("2025-12-01 09:05"), "pdf"))
}

func TestWriteCSV(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	table := &Table{Headers: []string{"Name", "Column"}, Rows: [][]string{{"Ana, Jr", "New"}}}

	require.NoError(t, WriteCSV(&buf, table))
	assert.Equal(t, "Name,Column\n\"Ana, Jr\",New\n", buf.String())
}

func TestWritePDF(t *testing.T) {
	t.Parallel()
	table := &Table{Headers: []string{"Name", "Column", "Tag"}}
	for i := 0; i < 120; i++ {
		table.Rows = append(table.Rows, []string{"João da Silva com um nome muito longo para caber", "Qualified", "VIP"})
	}

	var buf bytes.Buffer
	require.NoError(t, WritePDF(&buf, table, now))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, buf.Len(), 1000)
}

// ============================================================================
// Service
// ============================================================================

func setupService(t *testing.T) (Service, *database.Repository) {
	t.Helper()
	_, repo := testutil.SetupTestRepo(t)
	svc := NewService(repo, time.UTC)
	return svc, repo
}

func TestService_CountAndCSV(t *testing.T) {
	t.Parallel()
	svc, repo := setupService(t)
	ctx := context.Background()

	col := testutil.CreateTestColumn(t, repo, "u1", "New Leads")
	testutil.CreateTestCard(t, repo, "u1", col.ID, "Ana")
	testutil.CreateTestCard(t, repo, "u1", col.ID, "Bruno")
	testutil.CreateTestCard(t, repo, "u2", testutil.CreateTestColumn(t, repo, "u2", "X").ID, "Other")

	n, err := svc.Count(ctx, "u1", Filter{})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Count(ctx, "u1", Filter{Name: "ana"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var buf bytes.Buffer
	n, err = svc.CSV(ctx, &buf, "u1", Filter{}, []Field{FieldName})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Name", "Column", "Tag"}, records[0])
	assert.ElementsMatch(t, []string{"Ana", "Bruno"}, []string{records[1][0], records[2][0]})
	assert.Equal(t, "New Leads", records[1][1])
}

func TestService_NoLeads(t *testing.T) {
	t.Parallel()
	svc, _ := setupService(t)

	var buf bytes.Buffer
	_, err := svc.PDF(context.Background(), &buf, "u1", Filter{}, nil)
	assert.ErrorIs(t, err, ErrNoLeads)
	assert.Zero(t, buf.Len())

	_, err = svc.CSV(context.Background(), &buf, "u1", Filter{}, []Field{"bogus"})
	assert.ErrorIs(t, err, ErrInvalidField)
}

func TestService_PDF(t *testing.T) {
	t.Parallel()
	svc, repo := setupService(t)
	col := testutil.CreateTestColumn(t, repo, "u1", "New Leads")
	testutil.CreateTestCard(t, repo, "u1", col.ID, "Ana")

	var buf bytes.Buffer
	n, err := svc.PDF(context.Background(), &buf, "u1", Filter{Date: DateLast7}, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
