// Package event carries domain events from the mutating services to their
// subscribers. Dispatch is a plain synchronous call on the request goroutine:
// there is no queue, no worker, no delivery guarantee beyond "the handler ran
// before the request returned".
package event

import (
	"context"
	"log"
	"time"
)

// Event types
const (
	TypeFollowCreated  = "follow_created"
	TypeLikeCreated    = "like_created"
	TypeCommentCreated = "comment_created"
)

// Event describes a completed social action. RecipientID is the user the
// action was directed at (followee or post author); subscribers decide
// whether actor == recipient suppresses their reaction.
type Event struct {
	Type        string
	ActorID     int64
	RecipientID int64
	PostID      *int64
	CommentID   *int64
	OccurredAt  time.Time
}

// NewFollowCreated builds the event for a new follow edge.
func NewFollowCreated(followerID, followingID int64) Event {
	return Event{
		Type:        TypeFollowCreated,
		ActorID:     followerID,
		RecipientID: followingID,
		OccurredAt:  time.Now(),
	}
}

// NewLikeCreated builds the event for a new like. authorID is the liked
// post's author.
func NewLikeCreated(actorID, authorID, postID int64) Event {
	return Event{
		Type:        TypeLikeCreated,
		ActorID:     actorID,
		RecipientID: authorID,
		PostID:      &postID,
		OccurredAt:  time.Now(),
	}
}

// NewCommentCreated builds the event for a new comment. The recipient is
// always the post's author, never a parent comment's author.
func NewCommentCreated(actorID, authorID, postID, commentID int64) Event {
	return Event{
		Type:        TypeCommentCreated,
		ActorID:     actorID,
		RecipientID: authorID,
		PostID:      &postID,
		CommentID:   &commentID,
		OccurredAt:  time.Now(),
	}
}

// Handler consumes events.
type Handler interface {
	HandleEvent(ctx context.Context, e Event) error
}

// Bus is the publishing side seen by services.
type Bus interface {
	Dispatch(ctx context.Context, e Event)
}

// Dispatcher fans an event out to every subscriber, in subscription order,
// on the caller's goroutine. Handler errors are logged and swallowed: the
// triggering write has already committed, so the primary operation must not
// fail because a side effect did.
type Dispatcher struct {
	handlers []Handler
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers a handler. Not safe to call after serving starts.
func (d *Dispatcher) Subscribe(h Handler) {
	d.handlers = append(d.handlers, h)
}

// Dispatch delivers e to every subscriber.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	for _, h := range d.handlers {
		if err := h.HandleEvent(ctx, e); err != nil {
			log.Printf("[Events] handler failed: type=%s actor=%d recipient=%d err=%v",
				e.Type, e.ActorID, e.RecipientID, err)
		}
	}
}
