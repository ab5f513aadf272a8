package matching

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrUnknownEvent = errors.New("unknown engagement event")

// EventKind names an engagement event that can change a fame rating
type EventKind string

const (
	EventPhotoUploaded   EventKind = "photo_uploaded"
	EventPhotoDeleted    EventKind = "photo_deleted"
	EventFlashReceived   EventKind = "flash_received"
	EventProfileViewed   EventKind = "profile_viewed"
	EventMessageReceived EventKind = "message_received"
	EventMessageAnswered EventKind = "message_answered"
	EventProfileUpdated  EventKind = "profile_updated"
	EventLoggedIn        EventKind = "logged_in"
)

func (k EventKind) Valid() bool {
	switch k {
	case EventPhotoUploaded, EventPhotoDeleted, EventFlashReceived, EventProfileViewed,
		EventMessageReceived, EventMessageAnswered, EventProfileUpdated, EventLoggedIn:
		return true
	}
	return false
}

// EngagementEvent is emitted by the surrounding system after photo, flash,
// view or message activity concerning UserID
type EngagementEvent struct {
	UserID int64     `json:"user_id"`
	Kind   EventKind `json:"kind"`
}

// FameUpdater is the write path of the fame rating
type FameUpdater interface {
	UpdateFameRating(ctx context.Context, userID int64) (int, error)
}

// FameRefresher recomputes fame ratings in response to engagement events
type FameRefresher struct {
	updater FameUpdater
	logger  *zap.Logger
}

func NewFameRefresher(updater FameUpdater, logger *zap.Logger) *FameRefresher {
	return &FameRefresher{updater: updater, logger: logger}
}

// HandleEvent recomputes the rating of the user the event concerns.
// Write failures are returned so the caller can retry.
func (f *FameRefresher) HandleEvent(ctx context.Context, event EngagementEvent) (int, error) {
	if !event.Kind.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, event.Kind)
	}

	rating, err := f.updater.UpdateFameRating(ctx, event.UserID)
	if err != nil {
		f.logger.Error("fame refresh failed",
			zap.Int64("user_id", event.UserID),
			zap.String("event", string(event.Kind)),
			zap.Error(err),
		)
		return 0, err
	}

	return rating, nil
}
