package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-nexus/pkg/navigation"
)

// MenuInput locates a session on a page.
type MenuInput struct {
	SessionID string
	Path      string
}

type menuSessions interface {
	Menu(id, path string) navigation.Menu
}

// MenuQuery renders the sidebar for a session and records the current path.
type MenuQuery struct {
	sessions menuSessions
}

// NewMenuQuery builds the query.
func NewMenuQuery(sessions menuSessions) *MenuQuery {
	return &MenuQuery{sessions: sessions}
}

var _ gocommand.Querier[MenuInput, navigation.Menu] = (*MenuQuery)(nil)

func (q *MenuQuery) Query(_ context.Context, input MenuInput) (navigation.Menu, error) {
	if q.sessions == nil {
		return navigation.Menu{}, errors.New("menu query requires session store")
	}
	return q.sessions.Menu(input.SessionID, input.Path), nil
}
