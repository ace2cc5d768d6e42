package theme

import "github.com/motoloc/motocrm/internal/models"

// Defaults returns the shop's stock palette
func Defaults() models.ThemeSettings {
	return models.ThemeSettings{
		Brand: models.BrandColors{
			Navy: "#002736",
			Gold: "#91734E",
			Pink: "#FBE5E9",
		},
		Light: models.Palette{
			Background:            "#ffffff",
			Foreground:            "#002736",
			Card:                  "#ffffff",
			CardForeground:        "#002736",
			Popover:               "#ffffff",
			PopoverForeground:     "#002736",
			Primary:               "#002736",
			PrimaryForeground:     "#ffffff",
			Secondary:             "#FBE5E9",
			SecondaryForeground:   "#002736",
			Muted:                 "#FBE5E9",
			MutedForeground:       "#4d7c8a",
			Accent:                "#91734E",
			AccentForeground:      "#ffffff",
			Destructive:           "#ef4444",
			DestructiveForeground: "#ffffff",
			Border:                "#e8ddd4",
			Input:                 "#f5f0eb",
			Ring:                  "#002736",

			SidebarBackground:        "#fcfcfc",
			SidebarForeground:        "#002736",
			SidebarPrimary:           "#002736",
			SidebarPrimaryForeground: "#ffffff",
			SidebarAccent:            "#FBE5E9",
			SidebarAccentForeground:  "#002736",
			SidebarBorder:            "#e8ddd4",
			SidebarRing:              "#002736",
		},
		Dark: models.Palette{
			Background:            "#002736",
			Foreground:            "#ffffff",
			Card:                  "#1a4654",
			CardForeground:        "#ffffff",
			Popover:               "#1a4654",
			PopoverForeground:     "#ffffff",
			Primary:               "#91734E",
			PrimaryForeground:     "#002736",
			Secondary:             "#2d5a69",
			SecondaryForeground:   "#ffffff",
			Muted:                 "#2d5a69",
			MutedForeground:       "#b3b3b3",
			Accent:                "#e8ddd4",
			AccentForeground:      "#002736",
			Destructive:           "#dc2626",
			DestructiveForeground: "#ffffff",
			Border:                "#3a6b7a",
			Input:                 "#3a6b7a",
			Ring:                  "#91734E",

			SidebarBackground:        "#001a24",
			SidebarForeground:        "#f2f2f2",
			SidebarPrimary:           "#91734E",
			SidebarPrimaryForeground: "#002736",
			SidebarAccent:            "#2d5a69",
			SidebarAccentForeground:  "#f2f2f2",
			SidebarBorder:            "#3a6b7a",
			SidebarRing:              "#91734E",
		},
	}
}
