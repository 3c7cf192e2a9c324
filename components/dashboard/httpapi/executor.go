package httpapi

import (
	"context"
	"errors"
	"net/http"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-nexus/components/dashboard"
	"github.com/goliatone/go-nexus/components/dashboard/commands"
	"github.com/goliatone/go-nexus/pkg/gamification"
)

// Executor is the command surface shared by the HTTP transports.
type Executor interface {
	Assign(ctx context.Context, req dashboard.AddWidgetRequest) error
	Update(ctx context.Context, input commands.UpdateWidgetInput) error
	Remove(ctx context.Context, input commands.RemoveWidgetInput) error
	Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error
	Refresh(ctx context.Context, input commands.RefreshWidgetInput) error
	Preferences(ctx context.Context, input commands.SaveLayoutPreferencesInput) error
	ToggleNav(ctx context.Context, input commands.ToggleNavGroupInput) error
	SetRail(ctx context.Context, input commands.SetRailCollapsedInput) error
	SelectUser(ctx context.Context, input commands.ToggleUserSelectionInput) error
	SelectAllUsers(ctx context.Context, input commands.ToggleAllUsersInput) error
}

// ErrCommandUnavailable is returned when the executor has no commander for
// the requested operation.
var ErrCommandUnavailable = errors.New("httpapi: command not configured")

// CommandExecutor adapts go-command commanders to Executor.
type CommandExecutor struct {
	AssignCommander      gocommand.Commander[dashboard.AddWidgetRequest]
	UpdateCommander      gocommand.Commander[commands.UpdateWidgetInput]
	RemoveCommander      gocommand.Commander[commands.RemoveWidgetInput]
	ReorderCommander     gocommand.Commander[commands.ReorderWidgetsInput]
	RefreshCommander     gocommand.Commander[commands.RefreshWidgetInput]
	PreferencesCommander gocommand.Commander[commands.SaveLayoutPreferencesInput]
	ToggleNavCommander   gocommand.Commander[commands.ToggleNavGroupInput]
	RailCommander        gocommand.Commander[commands.SetRailCollapsedInput]
	SelectUserCommander  gocommand.Commander[commands.ToggleUserSelectionInput]
	SelectAllCommander   gocommand.Commander[commands.ToggleAllUsersInput]
}

var _ Executor = (*CommandExecutor)(nil)

func (e *CommandExecutor) Assign(ctx context.Context, req dashboard.AddWidgetRequest) error {
	return execute(ctx, e.AssignCommander, req)
}

func (e *CommandExecutor) Update(ctx context.Context, input commands.UpdateWidgetInput) error {
	return execute(ctx, e.UpdateCommander, input)
}

func (e *CommandExecutor) Remove(ctx context.Context, input commands.RemoveWidgetInput) error {
	return execute(ctx, e.RemoveCommander, input)
}

func (e *CommandExecutor) Reorder(ctx context.Context, input commands.ReorderWidgetsInput) error {
	return execute(ctx, e.ReorderCommander, input)
}

func (e *CommandExecutor) Refresh(ctx context.Context, input commands.RefreshWidgetInput) error {
	return execute(ctx, e.RefreshCommander, input)
}

func (e *CommandExecutor) Preferences(ctx context.Context, input commands.SaveLayoutPreferencesInput) error {
	return execute(ctx, e.PreferencesCommander, input)
}

func (e *CommandExecutor) ToggleNav(ctx context.Context, input commands.ToggleNavGroupInput) error {
	return execute(ctx, e.ToggleNavCommander, input)
}

func (e *CommandExecutor) SetRail(ctx context.Context, input commands.SetRailCollapsedInput) error {
	return execute(ctx, e.RailCommander, input)
}

func (e *CommandExecutor) SelectUser(ctx context.Context, input commands.ToggleUserSelectionInput) error {
	return execute(ctx, e.SelectUserCommander, input)
}

func (e *CommandExecutor) SelectAllUsers(ctx context.Context, input commands.ToggleAllUsersInput) error {
	return execute(ctx, e.SelectAllCommander, input)
}

func execute[T any](ctx context.Context, cmd gocommand.Commander[T], msg T) error {
	if cmd == nil {
		return ErrCommandUnavailable
	}
	return cmd.Execute(ctx, msg)
}

// StatusFor maps command errors onto HTTP status codes: invalid arguments
// are 400, missing widgets 404, unconfigured commands 501.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, gamification.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrWidgetNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrCommandUnavailable):
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
