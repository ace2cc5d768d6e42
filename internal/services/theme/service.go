package theme

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/motoloc/motocrm/internal/colorutil"
	"github.com/motoloc/motocrm/internal/database"
	"github.com/motoloc/motocrm/internal/events"
	"github.com/motoloc/motocrm/internal/models"
)

// Mode selects the light or dark palette
type Mode string

const (
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// CSSVar is one custom property of the generated stylesheet
type CSSVar struct {
	Name  string `json:"name"`  // e.g. "--card-foreground"
	Value string `json:"value"` // HSL triplet, e.g. "197 100% 11%"
}

// Service defines theme settings operations
type Service interface {
	Get(ctx context.Context, userID string) (*models.ThemeSettings, error)
	Save(ctx context.Context, ts *models.ThemeSettings) (*models.ThemeSettings, error)
	Reset(ctx context.Context, userID string) error
	CSSVariables(ctx context.Context, userID string, mode Mode) ([]CSSVar, error)
	Stylesheet(ctx context.Context, userID string) (string, error)
}

type service struct {
	repo        database.ThemeRepository
	eventClient events.EventPublisher
}

// NewService creates a new theme service
func NewService(repo database.ThemeRepository, eventClient events.EventPublisher) Service {
	return &service{
		repo:        repo,
		eventClient: eventClient,
	}
}

// Get returns the defaults overlaid with the user's stored values
func (s *service) Get(ctx context.Context, userID string) (*models.ThemeSettings, error) {
	ts := Defaults()
	ts.UserID = userID

	stored, err := s.repo.GetTheme(ctx, userID)
	switch {
	case errors.Is(err, database.ErrNotFound):
		return &ts, nil
	case err != nil:
		return nil, fmt.Errorf("failed to load theme: %w", err)
	}

	ts.MergeFrom(*stored)
	ts.CreatedAt = stored.CreatedAt
	ts.UpdatedAt = stored.UpdatedAt
	return &ts, nil
}

// Save validates and stores the settings. Empty fields fall back to the
// defaults when read.
func (s *service) Save(ctx context.Context, ts *models.ThemeSettings) (*models.ThemeSettings, error) {
	if err := Validate(ts); err != nil {
		return nil, err
	}
	if err := s.repo.SaveTheme(ctx, ts); err != nil {
		return nil, err
	}

	events.NotifyChanged(s.eventClient, ts.UserID, events.EntityTheme, ts.UserID)
	return s.Get(ctx, ts.UserID)
}

// Reset discards the user's settings
func (s *service) Reset(ctx context.Context, userID string) error {
	if err := s.repo.DeleteTheme(ctx, userID); err != nil {
		return fmt.Errorf("failed to reset theme: %w", err)
	}

	events.NotifyChanged(s.eventClient, userID, events.EntityTheme, userID)
	return nil
}

// CSSVariables returns the custom properties for one mode
func (s *service) CSSVariables(ctx context.Context, userID string, mode Mode) ([]CSSVar, error) {
	ts, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return Variables(ts, mode)
}

// Stylesheet renders both modes as a CSS document
func (s *service) Stylesheet(ctx context.Context, userID string) (string, error) {
	ts, err := s.Get(ctx, userID)
	if err != nil {
		return "", err
	}
	return RenderCSS(ts)
}

// Validate checks that every non-empty field is a #RRGGBB color
func Validate(ts *models.ThemeSettings) error {
	for _, f := range ts.Fields() {
		v := strings.TrimSpace(*f.Value)
		*f.Value = v
		if v != "" && !colorutil.ValidHex(v) {
			return fmt.Errorf("%w: %s = %q", ErrInvalidColor, f.Name, v)
		}
	}
	return nil
}

// Variables maps the brand colors and the palette of mode to CSS custom
// properties. Empty fields are skipped.
func Variables(ts *models.ThemeSettings, mode Mode) ([]CSSVar, error) {
	var palette *models.Palette
	switch mode {
	case ModeLight:
		palette = &ts.Light
	case ModeDark:
		palette = &ts.Dark
	default:
		return nil, ErrInvalidMode
	}

	fields := []models.ColorField{
		{Name: "brand_navy", Value: &ts.Brand.Navy},
		{Name: "brand_gold", Value: &ts.Brand.Gold},
		{Name: "brand_pink", Value: &ts.Brand.Pink},
	}
	fields = append(fields, palette.Fields()...)

	vars := make([]CSSVar, 0, len(fields))
	for _, f := range fields {
		if *f.Value == "" {
			continue
		}
		hsl, err := colorutil.HSL(*f.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidColor, f.Name)
		}
		vars = append(vars, CSSVar{Name: "--" + strings.ReplaceAll(f.Name, "_", "-"), Value: hsl})
	}
	return vars, nil
}

// RenderCSS writes a stylesheet with the light palette under :root and the
// dark palette under .dark
func RenderCSS(ts *models.ThemeSettings) (string, error) {
	var b strings.Builder
	for _, block := range []struct {
		selector string
		mode     Mode
	}{{":root", ModeLight}, {".dark", ModeDark}} {
		vars, err := Variables(ts, block.mode)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "%s {\n", block.selector)
		for _, v := range vars {
			fmt.Fprintf(&b, "  %s: %s;\n", v.Name, v.Value)
		}
		b.WriteString("}\n")
	}
	return b.String(), nil
}

// ============================================================================
// Theme files
// ============================================================================

// Export writes the settings as a YAML theme document
func Export(w io.Writer, ts *models.ThemeSettings) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ts); err != nil {
		return fmt.Errorf("failed to encode theme: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML theme document. Unknown keys are rejected so typos do
// not silently fall back to defaults.
func Import(r io.Reader) (*models.ThemeSettings, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var ts models.ThemeSettings
	if err := dec.Decode(&ts); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	if err := Validate(&ts); err != nil {
		return nil, err
	}
	return &ts, nil
}
