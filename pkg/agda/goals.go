// ABOUTME: Goal/reload cycle: load the file, collect interaction points, query each goal's type
// ABOUTME: Queries run strictly one at a time because responses carry no request id

package agda

import "context"

// Conversation is the part of a Session the goal cycle needs.
type Conversation interface {
	Command(ctx context.Context, c Cmd) error
	ReloadFile(ctx context.Context) error
	NextResponse(ctx context.Context) (Resp, error)
	NextDisplayInfo(ctx context.Context) (DisplayInfo, error)
	NextGoals(ctx context.Context) (LoadResult, error)
}

var _ Conversation = (*Session)(nil)

// LoadResult is what a load reports: the open interaction points in Agda's
// order and the errors it printed without failing the load.
type LoadResult struct {
	Points []InteractionPoint
	Errors string
}

// Goal is an open interaction point and its rendered type.
type Goal struct {
	ID   InteractionPoint
	Type string
}

// Tracker owns the interaction points of the loaded file. Every successful
// Reload replaces the whole set.
type Tracker struct {
	conv   Conversation
	goals  []Goal
	errors string
}

// NewTracker starts with no known goals.
func NewTracker(conv Conversation) *Tracker {
	return &Tracker{conv: conv}
}

// Goals returns the goals from the last successful reload, in Agda's order.
func (t *Tracker) Goals() []Goal {
	return append([]Goal(nil), t.goals...)
}

// Errors returns the non-fatal errors of the last successful reload.
func (t *Tracker) Errors() string { return t.errors }

// Reload re-checks the file and fetches the type of every goal. Agda's own
// errors come back as *ExternalError and leave no goals tracked.
func (t *Tracker) Reload(ctx context.Context) ([]Goal, error) {
	t.goals, t.errors = nil, ""
	if err := t.conv.ReloadFile(ctx); err != nil {
		return nil, err
	}
	loaded, err := t.conv.NextGoals(ctx)
	if err != nil {
		return nil, err
	}

	goals := make([]Goal, 0, len(loaded.Points))
	for _, id := range loaded.Points {
		ty, err := t.GoalType(ctx, id)
		if err != nil {
			return nil, err
		}
		goals = append(goals, Goal{ID: id, Type: ty})
	}
	t.goals, t.errors = goals, loaded.Errors
	return t.Goals(), nil
}

// GoalType asks for the type of one goal and waits for its CurrentGoal answer.
func (t *Tracker) GoalType(ctx context.Context, id InteractionPoint) (string, error) {
	if err := t.conv.Command(ctx, GoalTypeCmd(SimpleInput(id))); err != nil {
		return "", err
	}
	for {
		info, err := t.conv.NextDisplayInfo(ctx)
		if err != nil {
			return "", err
		}
		switch v := info.(type) {
		case InfoGoalSpecific:
			if cur, ok := v.GoalInfo.(CurrentGoal); ok {
				return string(cur.Type), nil
			}
		case InfoError:
			return "", &ExternalError{Message: string(v.Message)}
		}
	}
}

// Give fills goal id with code. It consumes the command's responses up to
// the refreshed interaction points so the next command starts clean.
func (t *Tracker) Give(ctx context.Context, id InteractionPoint, code string) (GiveResult, error) {
	if err := t.conv.Command(ctx, GiveCmd(NoRangeInput(id, code))); err != nil {
		return GiveResult{}, err
	}

	var result GiveResult
	given := false
	for {
		resp, err := t.conv.NextResponse(ctx)
		if err != nil {
			if !IsFatal(err) {
				continue
			}
			return GiveResult{}, err
		}
		switch v := resp.(type) {
		case RespGiveAction:
			result, given = v.GiveResult, true
		case RespInteractionPoints:
			if given {
				return result, nil
			}
		case RespDisplayInfo:
			if e, ok := v.Info.(InfoError); ok {
				return GiveResult{}, &ExternalError{Message: string(e.Message)}
			}
		}
	}
}

// Query sends c and returns the first display info it produces. Agda errors
// are returned as *ExternalError.
func Query(ctx context.Context, conv Conversation, c Cmd) (DisplayInfo, error) {
	if err := conv.Command(ctx, c); err != nil {
		return nil, err
	}
	info, err := conv.NextDisplayInfo(ctx)
	if err != nil {
		return nil, err
	}
	if e, ok := info.(InfoError); ok {
		return nil, &ExternalError{Message: string(e.Message)}
	}
	return info, nil
}
