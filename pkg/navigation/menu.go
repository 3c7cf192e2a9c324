package navigation

import (
	"strings"
	"unicode"

	"github.com/ettle/strcase"
)

// Menu is the render-ready sidebar for one request.
type Menu struct {
	Items         []MenuItem `json:"items"`
	CurrentPath   string     `json:"current_path"`
	RailCollapsed bool       `json:"rail_collapsed"`
	Breadcrumbs   []string   `json:"breadcrumbs,omitempty"`
}

// MenuItem is one rendered entry.
type MenuItem struct {
	Key          string     `json:"key"`
	DOMID        string     `json:"dom_id"`
	Title        string     `json:"title"`
	Path         string     `json:"path"`
	Icon         string     `json:"icon,omitempty"`
	Badge        *Badge     `json:"badge,omitempty"`
	Depth        int        `json:"depth"`
	Group        bool       `json:"group"`
	Active       bool       `json:"active"`
	Expanded     bool       `json:"expanded"`
	ShowLabel    bool       `json:"show_label"`
	ShowChildren bool       `json:"show_children"`
	Children     []MenuItem `json:"children,omitempty"`
}

// Menu projects the tree through state. Child lists are shown only for
// expanded groups while the rail is open; labels hide with the rail.
func (t *Tree) Menu(state UIState) Menu {
	menu := Menu{
		CurrentPath:   state.CurrentPath,
		RailCollapsed: state.RailCollapsed,
	}
	if t == nil {
		return menu
	}
	menu.Items = t.menuItems(t.roots, "", 0, state)
	menu.Breadcrumbs = t.Breadcrumbs(state.CurrentPath)
	return menu
}

func (t *Tree) menuItems(nodes []Node, prefix string, depth int, state UIState) []MenuItem {
	items := make([]MenuItem, 0, len(nodes))
	for _, n := range nodes {
		item := ItemOf(n)
		key := joinKey(prefix, strings.TrimSpace(item.Title))
		entry := MenuItem{
			Key:       key,
			DOMID:     DOMID(key),
			Title:     item.Title,
			Path:      item.Path,
			Icon:      item.Icon,
			Badge:     item.Badge,
			Depth:     depth,
			Active:    NodeActive(n, state.CurrentPath),
			ShowLabel: !state.RailCollapsed,
		}
		if g, ok := n.(Group); ok {
			entry.Group = true
			entry.Expanded = state.IsExpanded(key)
			entry.ShowChildren = entry.Expanded && !state.RailCollapsed
			entry.Children = t.menuItems(g.Children, key, depth+1, state)
		}
		items = append(items, entry)
	}
	return items
}

// DOMID derives a stable kebab-case element id from a group key.
func DOMID(key string) string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, key)
	kebab := strcase.ToKebab(strings.Join(strings.Fields(cleaned), " "))
	if kebab == "" {
		return "nav"
	}
	return "nav-" + kebab
}

// ActiveItem returns the deepest active entry in the menu, if any.
func (m Menu) ActiveItem() (MenuItem, bool) {
	var (
		best  MenuItem
		found bool
	)
	var walk func(items []MenuItem)
	walk = func(items []MenuItem) {
		for _, it := range items {
			if it.Active && (!found || len(it.Path) > len(best.Path) || (len(it.Path) == len(best.Path) && it.Depth > best.Depth)) {
				best, found = it, true
			}
			walk(it.Children)
		}
	}
	walk(m.Items)
	return best, found
}
