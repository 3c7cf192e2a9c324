package gamification

import "fmt"

// Action is a tracked member action that earns XP.
type Action string

const (
	ActionLogin          Action = "login"
	ActionCreateRecord   Action = "createRecord"
	ActionUpdateRecord   Action = "updateRecord"
	ActionDeleteRecord   Action = "deleteRecord"
	ActionInviteUser     Action = "inviteUser"
	ActionCompleteTask   Action = "completeTask"
	ActionReviewAuditLog Action = "reviewAuditLog"
)

// XPTable maps actions to the XP they award.
type XPTable map[Action]int

// DefaultXPTable returns the built-in reward table.
func DefaultXPTable() XPTable {
	return XPTable{
		ActionLogin:          5,
		ActionCreateRecord:   10,
		ActionUpdateRecord:   5,
		ActionDeleteRecord:   3,
		ActionInviteUser:     25,
		ActionCompleteTask:   15,
		ActionReviewAuditLog: 8,
	}
}

// Award sums the XP for the given actions. Unknown actions fail.
func (t XPTable) Award(actions ...Action) (int, error) {
	total := 0
	for _, action := range actions {
		points, ok := t[action]
		if !ok {
			return 0, invalidArgument("unknown action %q", action)
		}
		total += points
	}
	return total, nil
}

// Validate rejects negative rewards.
func (t XPTable) Validate() error {
	for action, points := range t {
		if points < 0 {
			return fmt.Errorf("%w: action %q has negative xp %d", ErrInvalidArgument, action, points)
		}
	}
	return nil
}
