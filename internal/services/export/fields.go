package export

import (
	"fmt"
	"time"

	"github.com/motoloc/motocrm/internal/models"
)

// Field is a selectable lead attribute of the report
type Field string

const (
	FieldName      Field = "name"
	FieldPhone     Field = "phone"
	FieldVisitDate Field = "visit_date"
	FieldCreatedAt Field = "created_at"
	FieldUpdatedAt Field = "updated_at"
)

// AllFields lists the selectable fields in report order
var AllFields = []Field{FieldName, FieldPhone, FieldVisitDate, FieldCreatedAt, FieldUpdatedAt}

// DefaultFields are selected when the caller picks none
var DefaultFields = []Field{FieldName, FieldPhone, FieldVisitDate}

// TimestampLayout formats created/updated times in reports
const TimestampLayout = "02/01/2006 15:04"

var fieldLabels = map[Field]string{
	FieldName:      "Name",
	FieldPhone:     "Phone",
	FieldVisitDate: "Visit Date",
	FieldCreatedAt: "Created At",
	FieldUpdatedAt: "Last Updated",
}

// Label is the column header of the field
func (f Field) Label() string {
	return fieldLabels[f]
}

// Valid reports whether f is a known field
func (f Field) Valid() bool {
	_, ok := fieldLabels[f]
	return ok
}

// ParseFields validates a field selection, falling back to DefaultFields
func ParseFields(names []string) ([]Field, error) {
	if len(names) == 0 {
		return DefaultFields, nil
	}
	fields := make([]Field, 0, len(names))
	for _, n := range names {
		f := Field(n)
		if !f.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrInvalidField, n)
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (f Field) value(c *models.Card, loc *time.Location) string {
	switch f {
	case FieldName:
		return c.Name
	case FieldPhone:
		return deref(c.Phone)
	case FieldVisitDate:
		return deref(c.VisitDate)
	case FieldCreatedAt:
		return c.CreatedAt.In(loc).Format(TimestampLayout)
	case FieldUpdatedAt:
		return c.UpdatedAt.In(loc).Format(TimestampLayout)
	}
	return ""
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Table is the tabular form shared by the CSV and PDF writers
type Table struct {
	Headers []string
	Rows    [][]string
}

// BuildTable lays out cards with the selected fields followed by the
// Column and Tag names
func BuildTable(cards []*models.Card, fields []Field, columnNames map[string]string, loc *time.Location) *Table {
	t := &Table{Headers: make([]string, 0, len(fields)+2)}
	for _, f := range fields {
		t.Headers = append(t.Headers, f.Label())
	}
	t.Headers = append(t.Headers, "Column", "Tag")

	for _, c := range cards {
		row := make([]string, 0, len(t.Headers))
		for _, f := range fields {
			row = append(row, f.value(c, loc))
		}
		tagName := ""
		if c.Tag != nil {
			tagName = c.Tag.Name
		}
		row = append(row, columnNames[c.ColumnID], tagName)
		t.Rows = append(t.Rows, row)
	}
	return t
}
