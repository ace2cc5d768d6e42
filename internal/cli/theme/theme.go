// Package theme holds all cli commands related to the panel color theme
// e.g., motocrm theme ...
package theme

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/motoloc/motocrm/internal/cli"
	"github.com/motoloc/motocrm/internal/cli/handler"
	"github.com/motoloc/motocrm/internal/cli/styles"
	"github.com/motoloc/motocrm/internal/models"
	themeservice "github.com/motoloc/motocrm/internal/services/theme"
)

// ThemeCmd returns the theme parent command
func ThemeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show, edit and share the panel color theme",
	}

	cmd.AddCommand(showCmd())
	cmd.AddCommand(cssCmd())
	cmd.AddCommand(exportCmd())
	cmd.AddCommand(importCmd())
	cmd.AddCommand(resetCmd())

	return cmd
}

// themeResult renders every color token with a swatch
type themeResult struct {
	*models.ThemeSettings
}

func (r *themeResult) Render(w io.Writer) error {
	fields := r.Fields()
	rows := make([][]string, len(fields))
	for i, f := range fields {
		rows[i] = []string{f.Name, styles.ColoredText("██", *f.Value), *f.Value}
	}
	_, err := fmt.Fprintln(w, styles.Table([]string{"Token", "", "Value"}, rows))
	return err
}

// cssResult is the variables of one mode, or the whole stylesheet
type cssResult struct {
	Mode       themeservice.Mode     `json:"mode,omitempty"`
	Variables  []themeservice.CSSVar `json:"variables,omitempty"`
	Stylesheet string                `json:"stylesheet,omitempty"`
}

func (r *cssResult) Render(w io.Writer) error {
	if r.Stylesheet != "" {
		_, err := fmt.Fprint(w, r.Stylesheet)
		return err
	}
	for _, v := range r.Variables {
		if _, err := fmt.Fprintf(w, "%s: %s;\n", v.Name, v.Value); err != nil {
			return err
		}
	}
	return nil
}

// fileResult reports a theme file written or applied
type fileResult struct {
	Path   string `json:"path"`
	action string
}

func (r *fileResult) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, cli.Check(fmt.Sprintf("Theme %s %s", r.action, r.Path)))
	return err
}

// resetResult reports a theme restored to the defaults
type resetResult struct {
	Reset bool `json:"reset"`
}

func (r *resetResult) Render(w io.Writer) error {
	_, err := fmt.Fprintln(w, cli.Check("Theme reset to the defaults"))
	return err
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective theme colors",
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			ts, err := c.App.Themes.Get(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			return &themeResult{ts}, nil
		})),
	}
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func cssCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "css",
		Short: "Print the theme as CSS custom properties",
		Long: `Print the CSS variables of one mode, or the full stylesheet when --mode is omitted.

Examples:
  motocrm theme css --mode=dark
  motocrm theme css > theme.css
`,
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			if !args.Has("mode") {
				css, err := c.App.Themes.Stylesheet(ctx, user.ID)
				if err != nil {
					return nil, err
				}
				return &cssResult{Stylesheet: css}, nil
			}
			mode := themeservice.Mode(args.GetString("mode", ""))
			vars, err := c.App.Themes.CSSVariables(ctx, user.ID, mode)
			if err != nil {
				return nil, err
			}
			return &cssResult{Mode: mode, Variables: vars}, nil
		})),
	}
	cmd.Flags().String("mode", "", "Palette mode: light or dark")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the theme to a YAML file",
		Long: `Write the effective theme to a YAML file that can be imported on another account.

Examples:
  motocrm theme export --file=shop-theme.yaml
`,
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			ts, err := c.App.Themes.Get(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			path := args.GetString("file", "")
			f, err := os.Create(path)
			if err != nil {
				return nil, fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := themeservice.Export(f, ts); err != nil {
				_ = f.Close()
				return nil, err
			}
			if err := f.Close(); err != nil {
				return nil, fmt.Errorf("failed to write %s: %w", path, err)
			}
			return &fileResult{Path: path, action: "exported to"}, nil
		}), handler.RequireString("file")),
	}
	cmd.Flags().String("file", "", "Destination YAML file (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Apply a theme from a YAML file",
		Long: `Apply a theme file. Tokens missing from the file keep their current value.

Examples:
  motocrm theme import --file=shop-theme.yaml
`,
		RunE: handler.Command(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			path := args.GetString("file", "")
			f, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("failed to open %s: %w", path, err)
			}
			defer func() { _ = f.Close() }()

			imported, err := themeservice.Import(f)
			if err != nil {
				return nil, err
			}
			current, err := c.App.Themes.Get(ctx, user.ID)
			if err != nil {
				return nil, err
			}
			current.MergeFrom(*imported)
			if _, err := c.App.Themes.Save(ctx, current); err != nil {
				return nil, err
			}
			return &fileResult{Path: path, action: "imported from"}, nil
		}), handler.RequireString("file")),
	}
	cmd.Flags().String("file", "", "Source YAML file (required)")
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Restore the default theme",
		RunE: handler.SimpleCommand(handler.HandlerFunc(func(ctx context.Context, args *handler.Arguments) (any, error) {
			c, user, err := args.User(ctx)
			if err != nil {
				return nil, err
			}
			if err := c.App.Themes.Reset(ctx, user.ID); err != nil {
				return nil, err
			}
			return &resetResult{Reset: true}, nil
		})),
	}
	cli.AddUserFlag(cmd)
	handler.AddOutputFlags(cmd)
	return cmd
}
