package directory

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, time.December, 10, 12, 0, 0, 0, time.UTC)

func TestFilterUsers(t *testing.T) {
	users := SampleUsers(now)

	assert.Len(t, FilterUsers(users, Filter{}), 6)
	assert.Len(t, FilterUsers(users, Filter{Status: FilterAll, Role: FilterAll}), 6)

	byQuery := FilterUsers(users, Filter{Query: "  SARAH "})
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Sarah Chen", byQuery[0].Name)

	byEmail := FilterUsers(users, Filter{Query: "lisa@"})
	require.Len(t, byEmail, 1)

	editors := FilterUsers(users, Filter{Role: "Editor"})
	assert.Len(t, editors, 2)

	activeEditors := FilterUsers(users, Filter{Role: "Editor", Status: string(StatusActive)})
	require.Len(t, activeEditors, 1)
	assert.Equal(t, "Emily Davis", activeEditors[0].Name)

	assert.Empty(t, FilterUsers(users, Filter{Query: "nobody"}))
}

func TestCountByStatus(t *testing.T) {
	counts := CountByStatus(SampleUsers(now))
	assert.Equal(t, StatusCounts{
		StatusActive:    3,
		StatusInactive:  1,
		StatusPending:   1,
		StatusSuspended: 1,
	}, counts)

	empty := CountByStatus(nil)
	assert.Len(t, empty, 4)
	assert.Zero(t, empty[StatusActive])
}

func TestStatusTable(t *testing.T) {
	assert.Equal(t, "Suspended", StatusSuspended.Label())
	assert.Equal(t, "ban", StatusSuspended.Icon())
	assert.Equal(t, "success", string(StatusActive.Tone()))
	assert.True(t, StatusPending.Valid())
	assert.False(t, Status("deleted").Valid())
}

func TestUserLabels(t *testing.T) {
	users := SampleUsers(now)
	assert.Equal(t, "AJ", users[0].Initials())
	assert.Equal(t, "2 minutes ago", users[0].LastActiveLabel(now))
	assert.Equal(t, "Never", users[2].LastActiveLabel(now))
}

func TestSelectionToggleAll(t *testing.T) {
	users := SampleUsers(now)
	editors := FilterUsers(users, Filter{Role: "Editor"})

	var sel Selection
	sel.Toggle("4")
	assert.False(t, sel.AllSelected(editors))

	sel.ToggleAll(editors)
	assert.Equal(t, []string{"4", "6"}, sel.IDs())
	assert.True(t, sel.AllSelected(editors))

	sel.ToggleAll(editors)
	assert.Zero(t, sel.Len())

	sel.Toggle("1")
	sel.ToggleAll(editors)
	assert.Equal(t, []string{"4", "6"}, sel.IDs(), "a partial selection is replaced by the visible set")

	sel.Toggle("6")
	assert.False(t, sel.Has("6"))
	sel.ToggleAll(nil)
	assert.Zero(t, sel.Len())
}

func TestDirectorySessionsAreIsolated(t *testing.T) {
	dir := Sample(now)
	ids, err := dir.ToggleSelection("a", "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids)
	assert.Empty(t, dir.Selected("b"))

	all := dir.ToggleAll("b", Filter{Status: string(StatusActive)})
	assert.Equal(t, []string{"1", "2", "4"}, all)
	assert.Equal(t, []string{"2"}, dir.Selected("a"))

	role, ok := dir.Role("3")
	require.True(t, ok)
	assert.Equal(t, "Manager", role.Name)
	_, ok = dir.Role("99")
	assert.False(t, ok)
	assert.Len(t, dir.Team(), 5)
}

func TestDirectorySelectionRejectsUnknownUser(t *testing.T) {
	dir := Sample(now)
	_, err := dir.ToggleSelection("a", "99")
	assert.ErrorIs(t, err, ErrUnknownUser)
	assert.Zero(t, dir.Selections())
}

func TestDirectorySelectionsAreBounded(t *testing.T) {
	dir := New(SampleUsers(now), nil, nil, WithMaxSelections(2))

	_, err := dir.ToggleSelection("a", "1")
	require.NoError(t, err)
	_, err = dir.ToggleSelection("b", "2")
	require.NoError(t, err)
	_, err = dir.ToggleSelection("a", "3")
	require.NoError(t, err)
	_, err = dir.ToggleSelection("c", "4")
	require.NoError(t, err)

	assert.Equal(t, 2, dir.Selections())
	assert.Empty(t, dir.Selected("b"), "least recently changed selection is dropped")
	assert.Equal(t, []string{"1", "3"}, dir.Selected("a"))

	_, err = dir.ToggleSelection("c", "4")
	require.NoError(t, err)
	assert.Equal(t, 1, dir.Selections(), "emptied selections are not kept")
}

func TestDirectoryConcurrentSelection(t *testing.T) {
	dir := Sample(now)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = dir.ToggleSelection("shared", "1")
		}()
	}
	wg.Wait()
	assert.Empty(t, dir.Selected("shared"))
}

func TestRolePermissions(t *testing.T) {
	roles := SampleRoles()
	require.Len(t, roles, 5)

	super := roles[0]
	assert.Equal(t, 9, super.ModuleCount())
	assert.True(t, super.Can("database", ActionDelete))

	admin := roles[1]
	assert.True(t, admin.Can("users", ActionDelete))
	assert.False(t, admin.Can("roles", ActionDelete))
	assert.True(t, admin.Can("roles", ActionUpdate))
	assert.False(t, admin.Can("database", ActionCreate))
	assert.True(t, admin.Can("database", ActionRead))

	manager := roles[2]
	assert.Equal(t, 5, manager.ModuleCount())
	assert.True(t, manager.Can("users", ActionUpdate))
	assert.False(t, manager.Can("users", ActionCreate))
	assert.False(t, manager.Can("content", ActionDelete))
	assert.False(t, manager.Can("notifications", ActionRead))

	viewer := roles[4]
	assert.Equal(t, 3, viewer.ModuleCount())
	assert.True(t, viewer.Can("dashboard", ActionRead))
	assert.False(t, viewer.Can("content", ActionRead))
}

func TestPermissionBadge(t *testing.T) {
	on := NewPermissionBadge(ActionCreate, true)
	assert.Equal(t, "C", on.Label)
	assert.Equal(t, "Create: Enabled", on.Title)
	assert.Equal(t, "permission-create", on.Class)

	off := NewPermissionBadge(ActionDelete, false)
	assert.Equal(t, "D", off.Label)
	assert.Equal(t, "Delete: Disabled", off.Title)
	assert.Equal(t, "bg-muted/50 text-muted-foreground/50", off.Class)
}

func TestMatrix(t *testing.T) {
	roles := SampleRoles()
	matrix := Matrix(roles)
	require.Len(t, matrix.Rows, len(Modules()))

	database := matrix.Rows[8]
	assert.Equal(t, "database", database.Module.ID)
	require.Len(t, database.Cells, 5)
	assert.True(t, database.Cells[0][3].Enabled)
	assert.False(t, database.Cells[1][0].Enabled)
	assert.True(t, database.Cells[1][1].Enabled)
	for _, badge := range database.Cells[4] {
		assert.False(t, badge.Enabled)
	}
}

func TestTeam(t *testing.T) {
	team := SampleTeam()
	assert.Equal(t, 2, OnlineCount(team))
	assert.Equal(t, "SM", team[1].Initials())
	assert.Equal(t, "Super Admin", team[0].Role.Label())
	assert.Equal(t, "bg-warning", team[2].Presence.DotClass())
	assert.Equal(t, "Away", team[2].StatusLabel())
	assert.Equal(t, "2h ago", team[3].StatusLabel())
	assert.Equal(t, "custom", RoleKey("custom").Label())
}
