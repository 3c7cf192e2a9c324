package dashboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-nexus/pkg/gamification"
)

// ManifestVersion is the only manifest format understood by this package.
const ManifestVersion = "1"

// ErrInvalidManifest wraps every manifest validation failure.
var ErrInvalidManifest = fmt.Errorf("dashboard: invalid widget manifest: %w", gamification.ErrInvalidArgument)

// WidgetManifestDocument is a YAML (or JSON) file declaring widgets that live
// outside this module. Source records the path it was read from.
type WidgetManifestDocument struct {
	Version  string           `json:"version" yaml:"version"`
	Name     string           `json:"name,omitempty" yaml:"name,omitempty"`
	Package  string           `json:"package,omitempty" yaml:"package,omitempty"`
	Homepage string           `json:"homepage,omitempty" yaml:"homepage,omitempty"`
	Widgets  []ManifestWidget `json:"widgets" yaml:"widgets"`
	Source   string           `json:"-" yaml:"-"`
}

// ManifestWidget is one widget entry. Template names an embedded template
// ("widgets/chart.html") used instead of the one derived from the code.
type ManifestWidget struct {
	Definition  WidgetDefinition `json:"definition" yaml:"definition"`
	Template    string           `json:"template,omitempty" yaml:"template,omitempty"`
	Provider    ManifestProvider `json:"provider,omitempty" yaml:"provider,omitempty"`
	Maintainers []string         `json:"maintainers,omitempty" yaml:"maintainers,omitempty"`
	Tags        []string         `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// ManifestProvider describes where the provider for a widget lives. It is
// informational; providers are still registered in code.
type ManifestProvider struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Summary      string   `json:"summary,omitempty" yaml:"summary,omitempty"`
	Entry        string   `json:"entry,omitempty" yaml:"entry,omitempty"`
	Package      string   `json:"package,omitempty" yaml:"package,omitempty"`
	DocsURL      string   `json:"docs_url,omitempty" yaml:"docs_url,omitempty"`
	Capabilities []string `json:"capabilities,omitempty" yaml:"capabilities,omitempty"`
	Channel      string   `json:"channel,omitempty" yaml:"channel,omitempty"`
}

func (p ManifestProvider) isZero() bool {
	return p.Name == "" && p.Summary == "" && p.Entry == "" && p.Package == "" &&
		p.DocsURL == "" && p.Channel == "" && len(p.Capabilities) == 0
}

// ReadManifest decodes and validates the manifest at path.
func ReadManifest(path string) (*WidgetManifestDocument, error) {
	f, err := os.Open(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: open manifest: %w", err)
	}
	defer f.Close()
	doc, err := DecodeManifest(f)
	if err != nil {
		return nil, fmt.Errorf("dashboard: manifest %s: %w", path, err)
	}
	doc.Source = path
	return doc, nil
}

// DecodeManifest reads one manifest document. Unknown fields are rejected and
// a missing version means the current one.
func DecodeManifest(r io.Reader) (*WidgetManifestDocument, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var doc WidgetManifestDocument
	switch err := dec.Decode(&doc); {
	case errors.Is(err, io.EOF):
		return nil, fmt.Errorf("%w: empty document", ErrInvalidManifest)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if doc.Version == "" {
		doc.Version = ManifestVersion
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Validate reports every problem in the document at once.
func (doc *WidgetManifestDocument) Validate() error {
	if doc.Version != ManifestVersion {
		return fmt.Errorf("%w: unsupported version %q", ErrInvalidManifest, doc.Version)
	}
	var errs error
	seen := make(map[string]bool, len(doc.Widgets))
	for i, w := range doc.Widgets {
		code := w.Definition.Code
		label := code
		if code == "" {
			label = fmt.Sprintf("#%d", i)
			errs = multierr.Append(errs, fmt.Errorf("%w: widget %s: definition.code is required", ErrInvalidManifest, label))
		}
		if w.Definition.Name == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: widget %s: definition.name is required", ErrInvalidManifest, label))
		}
		if code != "" && seen[code] {
			errs = multierr.Append(errs, fmt.Errorf("%w: duplicates widget code %s", ErrInvalidManifest, code))
		}
		seen[code] = true
		if err := checkTemplateName(w.Template); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%w: widget %s: %v", ErrInvalidManifest, label, err))
		}
	}
	return errs
}

// checkTemplateName accepts blank or a clean relative .html path.
func checkTemplateName(name string) error {
	if name == "" {
		return nil
	}
	if path.Ext(name) != ".html" {
		return fmt.Errorf("template %q must be an .html file", name)
	}
	if path.IsAbs(name) || path.Clean(name) != name || strings.HasPrefix(name, "..") {
		return fmt.Errorf("template %q must be a clean relative path", name)
	}
	return nil
}

// LoadManifestFile reads path and registers its widgets.
func (r *Registry) LoadManifestFile(path string) (*WidgetManifestDocument, error) {
	doc, err := ReadManifest(path)
	if err != nil {
		return nil, err
	}
	return doc, r.LoadManifestDocument(doc)
}

// LoadManifestDocument registers definitions, provider metadata and template
// overrides. A widget may replace a built-in definition.
func (r *Registry) LoadManifestDocument(doc *WidgetManifestDocument) error {
	if doc == nil {
		return fmt.Errorf("%w: nil document", ErrInvalidManifest)
	}
	for _, w := range doc.Widgets {
		if err := r.RegisterDefinition(w.Definition); err != nil {
			return fmt.Errorf("dashboard: widget %s from %s: %w", w.Definition.Code, doc.Source, err)
		}
		r.recordManifestWidget(w)
	}
	return nil
}
