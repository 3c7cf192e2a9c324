package dashboard

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// TranslationService translates widget labels. Providers keep their English
// text when no translator is set or a key is missing.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// ErrMissingTranslation is returned by Catalog for keys it does not hold.
var ErrMissingTranslation = fmt.Errorf("dashboard: missing translation")

// Catalog is a TranslationService backed by locale -> key -> text tables.
// Text may reference args as {name}.
type Catalog map[string]map[string]string

// LoadCatalog reads a YAML catalog:
//
//	es:
//	  dashboard.widget.streak.title: Racha
func LoadCatalog(path string) (Catalog, error) {
	raw, err := os.ReadFile(path) //nolint:gosec
	if err != nil {
		return nil, fmt.Errorf("dashboard: read catalog: %w", err)
	}
	var tables map[string]map[string]string
	if err := yaml.Unmarshal(raw, &tables); err != nil {
		return nil, fmt.Errorf("dashboard: parse catalog %s: %w", path, err)
	}
	cat := make(Catalog, len(tables))
	for locale, table := range tables {
		cat[normalizeLocale(locale)] = table
	}
	return cat, nil
}

func (c Catalog) Translate(_ context.Context, key, locale string, args map[string]any) (string, error) {
	for _, candidate := range localeCandidates(locale) {
		if text, ok := c[candidate][key]; ok && text != "" {
			return expandArgs(text, args), nil
		}
	}
	return "", fmt.Errorf("%w: %s (%s)", ErrMissingTranslation, key, locale)
}

func expandArgs(text string, args map[string]any) string {
	if len(args) == 0 || !strings.Contains(text, "{") {
		return text
	}
	pairs := make([]string, 0, len(args)*2)
	for k, v := range args {
		pairs = append(pairs, "{"+k+"}", fmt.Sprint(v))
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// ResolveLocalizedValue picks values[locale], walking up the locale's parents
// ("es-AR" tries "es-419" then "es") and then "default". Keys compare without
// case.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	normalized := normalizeLocaleMap(values)
	for _, candidate := range localeCandidates(locale) {
		if v := normalized[candidate]; v != "" {
			return v
		}
	}
	return fallback
}

func (def WidgetDefinition) NameForLocale(locale string) string {
	return ResolveLocalizedValue(def.NameLocalized, locale, def.Name)
}

func (def WidgetDefinition) DescriptionForLocale(locale string) string {
	return ResolveLocalizedValue(def.DescriptionLocalized, locale, def.Description)
}

func (def *WidgetDefinition) normalizeLocalizedFields() {
	def.NameLocalized = normalizeLocaleMap(def.NameLocalized)
	def.DescriptionLocalized = normalizeLocaleMap(def.DescriptionLocalized)
}

func normalizeLocaleMap(values map[string]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for key, value := range values {
		if key = normalizeLocale(key); key != "" && value != "" {
			out[key] = value
		}
	}
	return out
}

// localeCandidates lists the lookup keys for locale, most specific first,
// always ending in "default".
func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	out := []string{locale}
	seen := map[string]bool{locale: true}
	add := func(s string) {
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	if tag, err := language.Parse(locale); err == nil {
		for t := tag.Parent(); !t.IsRoot(); t = t.Parent() {
			add(normalizeLocale(t.String()))
		}
	} else if idx := strings.IndexAny(locale, "-_"); idx > 0 {
		add(locale[:idx])
	}
	return append(out, "default")
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
