package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Renderer is implemented by results with a human-readable form
type Renderer interface {
	Render(w io.Writer) error
}

// Identifier is implemented by results that print only their ID in quiet mode
type Identifier interface {
	GetID() string
}

// IDLister is implemented by list results, printing one ID per line in
// quiet mode
type IDLister interface {
	IDs() []string
}

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool
	Out   io.Writer // defaults to stdout
	Err   io.Writer // defaults to stderr
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.Err == nil {
		return os.Stderr
	}
	return f.Err
}

// Success outputs successful operation result
func (f *OutputFormatter) Success(data any) error {
	if f.Quiet {
		switch v := data.(type) {
		case Identifier:
			_, err := fmt.Fprintln(f.out(), v.GetID())
			return err
		case IDLister:
			for _, id := range v.IDs() {
				if _, err := fmt.Fprintln(f.out(), id); err != nil {
					return err
				}
			}
			return nil
		}
	}

	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	if r, ok := data.(Renderer); ok {
		return r.Render(f.out())
	}
	_, err := fmt.Fprintf(f.out(), "%+v\n", data)
	return err
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	w := f.errOut()
	if _, err := fmt.Fprintf(w, "%s %s\n", color.New(color.FgRed, color.Bold).Sprint("Error:"), message); err != nil {
		return err
	}
	if suggestion != "" {
		_, err := fmt.Fprintf(w, "%s %s\n", color.New(color.FgYellow).Sprint("Suggestion:"), suggestion)
		return err
	}
	return nil
}

// Suggestion returns a hint for recovering from err, or ""
func Suggestion(err error) string {
	switch ExitCode(err) {
	case ExitUsage:
		return "Pass --user <email> or export " + UserEnv
	case ExitNotFound:
		return "List the available items first, e.g. motocrm lead list"
	}
	return ""
}
