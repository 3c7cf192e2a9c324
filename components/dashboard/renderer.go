package dashboard

import (
	"embed"
	"io"
	"io/fs"
	"sort"
	"strings"

	template "github.com/goliatone/go-template"
)

// Renderer executes a named template. The controller writes the result to
// the response itself, so out is usually empty.
type Renderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
}

//go:embed templates/*.html templates/**/*.html
var embeddedTemplates embed.FS

const templateRoot = "templates"

// NewTemplateRenderer renders the pages and widgets bundled with this
// package.
func NewTemplateRenderer() (Renderer, error) {
	return template.NewRenderer(
		template.WithFS(embeddedTemplates),
		template.WithBaseDir(templateRoot),
		template.WithExtension(".html"),
	)
}

// TemplateNames lists the bundled templates relative to the template root,
// for example "widgets/chart.html".
func TemplateNames() []string {
	var names []string
	_ = fs.WalkDir(embeddedTemplates, templateRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		names = append(names, strings.TrimPrefix(p, templateRoot+"/"))
		return nil
	})
	sort.Strings(names)
	return names
}

// HasTemplate reports whether name is one of TemplateNames.
func HasTemplate(name string) bool {
	_, err := fs.Stat(embeddedTemplates, templateRoot+"/"+name)
	return err == nil
}
