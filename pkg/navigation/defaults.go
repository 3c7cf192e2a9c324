package navigation

// DefaultTree returns the admin console sidebar.
func DefaultTree() *Tree {
	return MustTree(DefaultNodes()...)
}

// DefaultNodes returns the admin console sidebar definition.
func DefaultNodes() []Node {
	return []Node{
		NewLeaf("Dashboard", "/", "layout-dashboard"),
		NewGroup("User Management", "/users", "users",
			NewLeaf("All Users", "/users", "users"),
			NewLeaf("User Groups", "/users/groups", "folder-tree"),
			NewLeaf("Invitations", "/users/invitations", "user-cog").WithBadge("3", BadgeWarning),
		).WithBadge("24", BadgeSecondary),
		NewGroup("Roles & Permissions", "/roles", "shield",
			NewLeaf("Roles", "/roles", "shield"),
			NewLeaf("Permissions", "/roles/permissions", "lock"),
			NewLeaf("Access Matrix", "/roles/matrix", "key"),
		),
		NewGroup("Security", "/security", "lock",
			NewLeaf("Audit Logs", "/security/audit", "file-text"),
			NewLeaf("Activity Monitor", "/security/activity", "activity"),
			NewLeaf("Login History", "/security/history", "history"),
		).WithBadge("!", BadgeDestructive),
		NewGroup("API & Webhooks", "/api", "key",
			NewLeaf("API Keys", "/api/keys", "key"),
			NewLeaf("Webhooks", "/api/webhooks", "webhook"),
		),
		NewLeaf("Notifications", "/notifications", "bell").WithBadge("5", BadgeSuccess),
		NewLeaf("Organizations", "/organizations", "building-2"),
		NewGroup("System", "/system", "database",
			NewLeaf("Health", "/system/health", "activity"),
			NewLeaf("Logs", "/system/logs", "file-text"),
		),
		NewLeaf("Settings", "/settings", "settings"),
	}
}
