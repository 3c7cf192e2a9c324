package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-nexus/components/dashboard"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

type listCmd struct {
	Manifests []string `arg:"" optional:"" type:"path" help:"Manifests to load on top of the built-in widgets."`
	Locale    string   `default:"en" help:"Locale used for widget names."`
	JSON      bool     `name:"json" help:"Print JSON instead of a table."`

	out io.Writer `kong:"-"`
}

type widgetRow struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
	Provider    bool   `json:"provider"`
	Template    string `json:"template,omitempty"`
}

func (cmd *listCmd) Run(_ context.Context) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	files, err := manifestFiles(cmd.Manifests)
	if err != nil {
		return err
	}
	rows, err := widgetRows(files, cmd.Locale)
	if err != nil {
		return err
	}
	if cmd.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}
	return writeTable(out, rows)
}

// widgetRows lists every widget a console loading files would offer.
func widgetRows(files []string, locale string) ([]widgetRow, error) {
	registry := dashboard.NewRegistry()
	for _, file := range files {
		if _, err := registry.LoadManifestFile(file); err != nil {
			return nil, fmt.Errorf("widgetctl: %w", err)
		}
	}
	templates := registry.WidgetTemplates()
	defs := registry.Definitions()
	rows := make([]widgetRow, 0, len(defs))
	for _, def := range defs {
		_, bound := registry.Provider(def.Code)
		rows = append(rows, widgetRow{
			Code:        def.Code,
			Name:        def.NameForLocale(locale),
			Description: def.DescriptionForLocale(locale),
			Category:    def.Category,
			Provider:    bound,
			Template:    templates[def.Code],
		})
	}
	return rows, nil
}

func writeTable(w io.Writer, rows []widgetRow) error {
	width := len("CODE")
	for _, r := range rows {
		width = max(width, len(r.Code))
	}
	line := func(code, name, category, provider string) string {
		return fmt.Sprintf("%-*s  %-10s  %-8s  %s", width, code, category, provider, name)
	}
	if _, err := fmt.Fprintln(w, headerStyle.Render(line("CODE", "NAME", "CATEGORY", "PROVIDER"))); err != nil {
		return err
	}
	for _, r := range rows {
		provider := "yes"
		if !r.Provider {
			provider = dimStyle.Render("none")
		}
		if _, err := fmt.Fprintln(w, line(r.Code, r.Name, r.Category, provider)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, dimStyle.Render("chart types: "+strings.Join(dashboard.ChartTypes(), ", ")))
	return err
}
