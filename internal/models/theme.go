package models

import "time"

// BrandColors are the shop's identity colors, shared by both modes
type BrandColors struct {
	Navy string `json:"navy" yaml:"navy"`
	Gold string `json:"gold" yaml:"gold"`
	Pink string `json:"pink" yaml:"pink"`
}

// Palette holds the color tokens of one display mode
type Palette struct {
	Background            string `json:"background" yaml:"background"`
	Foreground            string `json:"foreground" yaml:"foreground"`
	Card                  string `json:"card" yaml:"card"`
	CardForeground        string `json:"card_foreground" yaml:"card_foreground"`
	Popover               string `json:"popover" yaml:"popover"`
	PopoverForeground     string `json:"popover_foreground" yaml:"popover_foreground"`
	Primary               string `json:"primary" yaml:"primary"`
	PrimaryForeground     string `json:"primary_foreground" yaml:"primary_foreground"`
	Secondary             string `json:"secondary" yaml:"secondary"`
	SecondaryForeground   string `json:"secondary_foreground" yaml:"secondary_foreground"`
	Muted                 string `json:"muted" yaml:"muted"`
	MutedForeground       string `json:"muted_foreground" yaml:"muted_foreground"`
	Accent                string `json:"accent" yaml:"accent"`
	AccentForeground      string `json:"accent_foreground" yaml:"accent_foreground"`
	Destructive           string `json:"destructive" yaml:"destructive"`
	DestructiveForeground string `json:"destructive_foreground" yaml:"destructive_foreground"`
	Border                string `json:"border" yaml:"border"`
	Input                 string `json:"input" yaml:"input"`
	Ring                  string `json:"ring" yaml:"ring"`

	SidebarBackground        string `json:"sidebar_background" yaml:"sidebar_background"`
	SidebarForeground        string `json:"sidebar_foreground" yaml:"sidebar_foreground"`
	SidebarPrimary           string `json:"sidebar_primary" yaml:"sidebar_primary"`
	SidebarPrimaryForeground string `json:"sidebar_primary_foreground" yaml:"sidebar_primary_foreground"`
	SidebarAccent            string `json:"sidebar_accent" yaml:"sidebar_accent"`
	SidebarAccentForeground  string `json:"sidebar_accent_foreground" yaml:"sidebar_accent_foreground"`
	SidebarBorder            string `json:"sidebar_border" yaml:"sidebar_border"`
	SidebarRing              string `json:"sidebar_ring" yaml:"sidebar_ring"`
}

// ColorField is a named, addressable color token
type ColorField struct {
	Name  string
	Value *string
}

// Fields lists every token of the palette in display order
func (p *Palette) Fields() []ColorField {
	return []ColorField{
		{"background", &p.Background},
		{"foreground", &p.Foreground},
		{"card", &p.Card},
		{"card_foreground", &p.CardForeground},
		{"popover", &p.Popover},
		{"popover_foreground", &p.PopoverForeground},
		{"primary", &p.Primary},
		{"primary_foreground", &p.PrimaryForeground},
		{"secondary", &p.Secondary},
		{"secondary_foreground", &p.SecondaryForeground},
		{"muted", &p.Muted},
		{"muted_foreground", &p.MutedForeground},
		{"accent", &p.Accent},
		{"accent_foreground", &p.AccentForeground},
		{"destructive", &p.Destructive},
		{"destructive_foreground", &p.DestructiveForeground},
		{"border", &p.Border},
		{"input", &p.Input},
		{"ring", &p.Ring},
		{"sidebar_background", &p.SidebarBackground},
		{"sidebar_foreground", &p.SidebarForeground},
		{"sidebar_primary", &p.SidebarPrimary},
		{"sidebar_primary_foreground", &p.SidebarPrimaryForeground},
		{"sidebar_accent", &p.SidebarAccent},
		{"sidebar_accent_foreground", &p.SidebarAccentForeground},
		{"sidebar_border", &p.SidebarBorder},
		{"sidebar_ring", &p.SidebarRing},
	}
}

// ThemeSettings is a user's color configuration for the web panel
type ThemeSettings struct {
	UserID    string      `json:"user_id,omitempty" yaml:"-"`
	Brand     BrandColors `json:"brand" yaml:"brand"`
	Light     Palette     `json:"light" yaml:"light"`
	Dark      Palette     `json:"dark" yaml:"dark"`
	CreatedAt time.Time   `json:"created_at,omitzero" yaml:"-"`
	UpdatedAt time.Time   `json:"updated_at,omitzero" yaml:"-"`
}

// Fields lists every token of the theme, prefixed by its group
// ("brand_navy", "light_background", "dark_sidebar_ring", ...).
func (t *ThemeSettings) Fields() []ColorField {
	fields := []ColorField{
		{"brand_navy", &t.Brand.Navy},
		{"brand_gold", &t.Brand.Gold},
		{"brand_pink", &t.Brand.Pink},
	}
	for _, f := range t.Light.Fields() {
		fields = append(fields, ColorField{Name: "light_" + f.Name, Value: f.Value})
	}
	for _, f := range t.Dark.Fields() {
		fields = append(fields, ColorField{Name: "dark_" + f.Name, Value: f.Value})
	}
	return fields
}

// MergeFrom overrides fields with the non-empty values from other
func (t *ThemeSettings) MergeFrom(other ThemeSettings) {
	src := other.Fields()
	for i, f := range t.Fields() {
		if v := *src[i].Value; v != "" {
			*f.Value = v
		}
	}
}
