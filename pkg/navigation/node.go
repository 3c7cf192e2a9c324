package navigation

// BadgeVariant selects the badge colour role.
type BadgeVariant string

const (
	BadgeDefault     BadgeVariant = "default"
	BadgeSecondary   BadgeVariant = "secondary"
	BadgeDestructive BadgeVariant = "destructive"
	BadgeSuccess     BadgeVariant = "success"
	BadgeWarning     BadgeVariant = "warning"
)

// Badge is the small counter or marker shown next to a menu entry.
type Badge struct {
	Text    string       `json:"text"`
	Variant BadgeVariant `json:"variant"`
}

// Item carries the fields shared by every node.
type Item struct {
	Title string `json:"title"`
	Path  string `json:"path"`
	Icon  string `json:"icon,omitempty"`
	Badge *Badge `json:"badge,omitempty"`
}

// Node is either a Leaf or a Group.
type Node interface {
	item() Item
}

// Leaf links directly to a page.
type Leaf struct {
	Item
}

// Group is an expandable container. It always has at least one child.
type Group struct {
	Item
	Children []Node
}

func (l Leaf) item() Item  { return l.Item }
func (g Group) item() Item { return g.Item }

// ItemOf returns the shared fields of n.
func ItemOf(n Node) Item {
	if n == nil {
		return Item{}
	}
	return n.item()
}

// NewLeaf builds a leaf node.
func NewLeaf(title, path, icon string) Leaf {
	return Leaf{Item: Item{Title: title, Path: path, Icon: icon}}
}

// NewGroup builds a group node.
func NewGroup(title, path, icon string, children ...Node) Group {
	return Group{Item: Item{Title: title, Path: path, Icon: icon}, Children: children}
}

// WithBadge returns a copy of the leaf with a badge attached.
func (l Leaf) WithBadge(text string, variant BadgeVariant) Leaf {
	l.Badge = newBadge(text, variant)
	return l
}

// WithBadge returns a copy of the group with a badge attached.
func (g Group) WithBadge(text string, variant BadgeVariant) Group {
	g.Badge = newBadge(text, variant)
	return g
}

func newBadge(text string, variant BadgeVariant) *Badge {
	if variant == "" {
		variant = BadgeSecondary
	}
	return &Badge{Text: text, Variant: variant}
}
