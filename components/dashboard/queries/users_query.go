package queries

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"

	"github.com/goliatone/go-nexus/pkg/directory"
)

// UsersInput filters the user table for a session.
type UsersInput struct {
	SessionID string
	Filter    directory.Filter
}

// UsersResult is the filtered table plus the unfiltered status counts and
// the session's bulk selection.
type UsersResult struct {
	Users       []directory.User       `json:"users"`
	Counts      directory.StatusCounts `json:"counts"`
	Selected    []string               `json:"selected"`
	AllSelected bool                   `json:"all_selected"`
}

type userDirectory interface {
	Users(f directory.Filter) []directory.User
	Counts() directory.StatusCounts
	Selected(session string) []string
}

// UsersQuery lists directory users.
type UsersQuery struct {
	dir userDirectory
}

// NewUsersQuery builds the query.
func NewUsersQuery(dir userDirectory) *UsersQuery {
	return &UsersQuery{dir: dir}
}

var _ gocommand.Querier[UsersInput, UsersResult] = (*UsersQuery)(nil)

func (q *UsersQuery) Query(_ context.Context, input UsersInput) (UsersResult, error) {
	if q.dir == nil {
		return UsersResult{}, errors.New("users query requires directory")
	}
	users := q.dir.Users(input.Filter)
	selected := q.dir.Selected(input.SessionID)
	picked := make(map[string]bool, len(selected))
	for _, id := range selected {
		picked[id] = true
	}
	all := len(users) > 0
	for _, u := range users {
		if !picked[u.ID] {
			all = false
			break
		}
	}
	return UsersResult{
		Users:       users,
		Counts:      q.dir.Counts(),
		Selected:    selected,
		AllSelected: all,
	}, nil
}
