package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/multierr"

	"github.com/goliatone/go-nexus/components/dashboard"
)

type checkCmd struct {
	Paths []string `arg:"" type:"path" help:"Manifest files or directories of manifests."`

	out io.Writer `kong:"-"`
}

func (cmd *checkCmd) Run(_ context.Context) error {
	out := cmd.out
	if out == nil {
		out = os.Stdout
	}
	files, err := manifestFiles(cmd.Paths)
	if err != nil {
		return err
	}
	report, err := checkManifests(files)
	for _, line := range report {
		fmt.Fprintln(out, line)
	}
	return err
}

// checkManifests parses every file, compiles each widget schema, checks
// template overrides against the bundled templates, and rejects codes already
// claimed by a built-in widget or an earlier file. All problems are returned
// together.
func checkManifests(files []string) ([]string, error) {
	owners := map[string]string{}
	for _, def := range dashboard.DefaultWidgetDefinitions() {
		owners[def.Code] = "built-in"
	}
	validator := dashboard.NewJSONSchemaValidator()

	var (
		report []string
		errs   error
	)
	for _, file := range files {
		doc, err := dashboard.ReadManifest(file)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		failed := false
		for _, widget := range doc.Widgets {
			code := widget.Definition.Code
			if prev, ok := owners[code]; ok {
				errs = multierr.Append(errs, fmt.Errorf("widgetctl: %s: widget %s already defined by %s", file, code, prev))
				failed = true
				continue
			}
			owners[code] = file
			if err := validator.Compile(widget.Definition); err != nil {
				errs = multierr.Append(errs, fmt.Errorf("widgetctl: %s: %w", file, err))
				failed = true
			}
			if widget.Template != "" && !dashboard.HasTemplate(widget.Template) {
				errs = multierr.Append(errs, fmt.Errorf("widgetctl: %s: widget %s uses unknown template %s", file, code, widget.Template))
				failed = true
			}
		}
		if !failed {
			report = append(report, fmt.Sprintf("✓ %s (%d widgets)", file, len(doc.Widgets)))
		}
	}
	return report, errs
}

// manifestFiles expands directories into their .yaml, .yml and .json files.
func manifestFiles(paths []string) ([]string, error) {
	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("widgetctl: %w", err)
		}
		if !info.IsDir() {
			files = append(files, path)
			continue
		}
		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, fmt.Errorf("widgetctl: read %s: %w", path, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".yaml", ".yml", ".json":
				files = append(files, filepath.Join(path, entry.Name()))
			}
		}
	}
	sort.Strings(files)
	return files, nil
}
