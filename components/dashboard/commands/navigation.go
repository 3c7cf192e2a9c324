package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-nexus/pkg/navigation"
)

// ToggleNavGroupInput flips one navigation group for a session.
type ToggleNavGroupInput struct {
	SessionID string `json:"session_id"`
	Key       string `json:"key"`
	// Result is filled by Execute so transports can echo the new state.
	Result *NavStateResult `json:"-"`
}

// SetRailCollapsedInput collapses or restores the sidebar rail.
type SetRailCollapsedInput struct {
	SessionID string          `json:"session_id"`
	Collapsed bool            `json:"collapsed"`
	Result    *NavStateResult `json:"-"`
}

// NavStateResult is the session state after a navigation command.
type NavStateResult struct {
	State   navigation.Snapshot `json:"state"`
	Applied bool                `json:"applied"`
}

type navigationSessions interface {
	Toggle(id, key string) (navigation.UIState, bool)
	SetRailCollapsed(id string, collapsed bool) navigation.UIState
}

var errMissingSession = errors.New("navigation command requires session id")

// ToggleNavGroupCommand expands or collapses a group. Toggling a leaf, an
// unknown key or any group while the rail is collapsed leaves the state
// unchanged and reports Applied=false.
type ToggleNavGroupCommand struct {
	sessions  navigationSessions
	telemetry Telemetry
}

// NewToggleNavGroupCommand creates the command.
func NewToggleNavGroupCommand(sessions navigationSessions, telemetry Telemetry) *ToggleNavGroupCommand {
	return &ToggleNavGroupCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ToggleNavGroupInput] = (*ToggleNavGroupCommand)(nil)

func (c *ToggleNavGroupCommand) Execute(ctx context.Context, msg ToggleNavGroupInput) error {
	if c.sessions == nil {
		return errors.New("toggle command requires session store")
	}
	if msg.SessionID == "" {
		return errMissingSession
	}
	state, applied := c.sessions.Toggle(msg.SessionID, msg.Key)
	if msg.Result != nil {
		*msg.Result = NavStateResult{State: state.Snapshot(), Applied: applied}
	}
	c.telemetry.Record(ctx, EventNavToggle, map[string]any{
		"session_id": msg.SessionID,
		"key":        msg.Key,
		"applied":    applied,
		"expanded":   state.IsExpanded(msg.Key),
	})
	return nil
}

// SetRailCollapsedCommand stores the rail flag for a session.
type SetRailCollapsedCommand struct {
	sessions  navigationSessions
	telemetry Telemetry
}

// NewSetRailCollapsedCommand creates the command.
func NewSetRailCollapsedCommand(sessions navigationSessions, telemetry Telemetry) *SetRailCollapsedCommand {
	return &SetRailCollapsedCommand{sessions: sessions, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetRailCollapsedInput] = (*SetRailCollapsedCommand)(nil)

func (c *SetRailCollapsedCommand) Execute(ctx context.Context, msg SetRailCollapsedInput) error {
	if c.sessions == nil {
		return errors.New("rail command requires session store")
	}
	if msg.SessionID == "" {
		return errMissingSession
	}
	state := c.sessions.SetRailCollapsed(msg.SessionID, msg.Collapsed)
	if msg.Result != nil {
		*msg.Result = NavStateResult{State: state.Snapshot(), Applied: true}
	}
	c.telemetry.Record(ctx, EventNavRail, map[string]any{
		"session_id": msg.SessionID,
		"collapsed":  msg.Collapsed,
	})
	return nil
}
