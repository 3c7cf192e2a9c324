package commands

import (
	"context"
	"errors"
	"strings"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-nexus/pkg/directory"
)

// ToggleUserSelectionInput adds or removes one user from the session's bulk
// selection.
type ToggleUserSelectionInput struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	// Result is filled by Execute so transports can echo the selection.
	Result *UserSelectionResult `json:"-"`
}

// ToggleAllUsersInput selects every user visible under Filter, or clears the
// selection when they are all selected already.
type ToggleAllUsersInput struct {
	SessionID string               `json:"session_id"`
	Filter    directory.Filter     `json:"filter"`
	Result    *UserSelectionResult `json:"-"`
}

// UserSelectionResult is the session's selection after a command.
type UserSelectionResult struct {
	Selected []string `json:"selected"`
	Count    int      `json:"count"`
}

type userSelections interface {
	ToggleSelection(session, id string) ([]string, error)
	ToggleAll(session string, f directory.Filter) []string
}

// ToggleUserSelectionCommand flips one user in a session's selection.
type ToggleUserSelectionCommand struct {
	dir       userSelections
	telemetry Telemetry
}

// NewToggleUserSelectionCommand creates the command.
func NewToggleUserSelectionCommand(dir userSelections, telemetry Telemetry) *ToggleUserSelectionCommand {
	return &ToggleUserSelectionCommand{dir: dir, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleUserSelectionInput] = (*ToggleUserSelectionCommand)(nil)

func (c *ToggleUserSelectionCommand) Execute(ctx context.Context, msg ToggleUserSelectionInput) error {
	if c.dir == nil {
		return errors.New("select command requires directory")
	}
	if msg.SessionID == "" {
		return invalidInput("select user", "session id is required")
	}
	id := strings.TrimSpace(msg.UserID)
	if id == "" {
		return invalidInput("select user", "user id is required")
	}
	selected, err := c.dir.ToggleSelection(msg.SessionID, id)
	if errors.Is(err, directory.ErrUnknownUser) {
		return invalidInput("select user", "unknown user %q", id)
	}
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = UserSelectionResult{Selected: selected, Count: len(selected)}
	}
	c.telemetry.Record(ctx, EventUserSelect, map[string]any{
		"session_id": msg.SessionID,
		"user_id":    id,
		"selected":   len(selected),
	})
	return nil
}

// ToggleAllUsersCommand selects or clears every visible user.
type ToggleAllUsersCommand struct {
	dir       userSelections
	telemetry Telemetry
}

// NewToggleAllUsersCommand creates the command.
func NewToggleAllUsersCommand(dir userSelections, telemetry Telemetry) *ToggleAllUsersCommand {
	return &ToggleAllUsersCommand{dir: dir, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleAllUsersInput] = (*ToggleAllUsersCommand)(nil)

func (c *ToggleAllUsersCommand) Execute(ctx context.Context, msg ToggleAllUsersInput) error {
	if c.dir == nil {
		return errors.New("select all command requires directory")
	}
	if msg.SessionID == "" {
		return invalidInput("select all users", "session id is required")
	}
	selected := c.dir.ToggleAll(msg.SessionID, msg.Filter)
	if msg.Result != nil {
		*msg.Result = UserSelectionResult{Selected: selected, Count: len(selected)}
	}
	c.telemetry.Record(ctx, EventUserSelectAll, map[string]any{
		"session_id": msg.SessionID,
		"status":     msg.Filter.Status,
		"role":       msg.Filter.Role,
		"selected":   len(selected),
	})
	return nil
}
