package reaction

import "anoa.com/bloggerplatform/internal/entity"

type recordAction int

const (
	actionNone recordAction = iota
	actionCreate
	actionUpdate
	actionDelete
)

func (a recordAction) String() string {
	switch a {
	case actionCreate:
		return "create"
	case actionUpdate:
		return "update"
	case actionDelete:
		return "delete"
	default:
		return "none"
	}
}

type postTransition struct {
	action recordAction
	// record is the state to persist for create and update. For create only
	// Status and FirstReactionConsumed are set; the caller fills identity.
	record *entity.PostReaction
	delta  entity.CounterDelta
}

type commentTransition struct {
	action recordAction
	record *entity.CommentReaction
	delta  entity.CounterDelta
}

// decidePostTransition is the post reaction state machine. A suppressed
// record (Status None) is kept so the user can never be a first reaction
// again; any change away from the original status consumes it for good.
func decidePostTransition(current *entity.PostReaction, requested entity.LikeStatus) postTransition {
	if current == nil {
		if requested == entity.LikeStatusNone {
			return postTransition{action: actionNone}
		}
		return postTransition{
			action: actionCreate,
			record: &entity.PostReaction{Status: requested},
			delta:  entity.DeltaFor(requested, 1),
		}
	}

	if current.Status == requested {
		return postTransition{action: actionNone}
	}

	next := *current
	next.Status = requested
	next.FirstReactionConsumed = true

	return postTransition{
		action: actionUpdate,
		record: &next,
		delta:  entity.DeltaFor(current.Status, -1).Add(entity.DeltaFor(requested, 1)),
	}
}

// decideCommentTransition is the comment reaction state machine. Comments
// have no feed, so withdrawing a reaction deletes the record.
func decideCommentTransition(current *entity.CommentReaction, requested entity.LikeStatus) commentTransition {
	if current == nil {
		if requested == entity.LikeStatusNone {
			return commentTransition{action: actionNone}
		}
		return commentTransition{
			action: actionCreate,
			record: &entity.CommentReaction{Status: requested},
			delta:  entity.DeltaFor(requested, 1),
		}
	}

	if current.Status == requested {
		return commentTransition{action: actionNone}
	}

	if requested == entity.LikeStatusNone {
		return commentTransition{
			action: actionDelete,
			record: current,
			delta:  entity.DeltaFor(current.Status, -1),
		}
	}

	next := *current
	next.Status = requested
	return commentTransition{
		action: actionUpdate,
		record: &next,
		delta:  entity.DeltaFor(current.Status, -1).Add(entity.DeltaFor(requested, 1)),
	}
}
