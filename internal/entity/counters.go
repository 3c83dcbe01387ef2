package entity

import (
	"errors"
	"fmt"
)

var ErrNegativeCounter = errors.New("counter would go negative")

// LikesCounters are the denormalized reaction totals a subject carries.
type LikesCounters struct {
	LikesCount    int64 `gorm:"not null;default:0" json:"likes_count"`
	DislikesCount int64 `gorm:"not null;default:0" json:"dislikes_count"`
}

type CounterDelta struct {
	Likes    int64
	Dislikes int64
}

func (d CounterDelta) IsZero() bool {
	return d.Likes == 0 && d.Dislikes == 0
}

func (d CounterDelta) Add(o CounterDelta) CounterDelta {
	return CounterDelta{Likes: d.Likes + o.Likes, Dislikes: d.Dislikes + o.Dislikes}
}

// DeltaFor is the counter change for adding (sign 1) or removing (sign -1)
// one reaction with the given status. None contributes nothing.
func DeltaFor(status LikeStatus, sign int64) CounterDelta {
	switch status {
	case LikeStatusLike:
		return CounterDelta{Likes: sign}
	case LikeStatusDislike:
		return CounterDelta{Dislikes: sign}
	default:
		return CounterDelta{}
	}
}

// ApplyDelta returns c shifted by d. It never clamps: a result below zero
// means the caller's bookkeeping is wrong.
func ApplyDelta(c LikesCounters, d CounterDelta) (LikesCounters, error) {
	next := LikesCounters{
		LikesCount:    c.LikesCount + d.Likes,
		DislikesCount: c.DislikesCount + d.Dislikes,
	}
	if next.LikesCount < 0 || next.DislikesCount < 0 {
		return c, fmt.Errorf("%w: %d/%d %+d/%+d", ErrNegativeCounter,
			c.LikesCount, c.DislikesCount, d.Likes, d.Dislikes)
	}
	return next, nil
}
