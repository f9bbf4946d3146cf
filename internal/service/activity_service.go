package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/bookmark-service/internal/events"
)

// ActivityService records auth activity events to the audit log. It
// logs only what the event carries: rejected logins arrive without
// account ID or cause, and stay that way.
type ActivityService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewActivityService creates the service.
func NewActivityService(dispatcher events.Dispatcher, logger *zap.Logger) *ActivityService {
	return &ActivityService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to auth activity events.
func (a *ActivityService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventLoginSucceeded, a.handleEvent)
	a.dispatcher.Subscribe(events.EventLoginRejected, a.handleEvent)
	a.dispatcher.Subscribe(events.EventFederatedLogin, a.handleEvent)
	a.dispatcher.Subscribe(events.EventLogout, a.handleEvent)
}

func (a *ActivityService) handleEvent(ctx context.Context, event events.Event) error {
	a.logger.Info("auth activity",
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("account_id", event.AccountID),
		zap.String("provider", event.Provider),
		zap.Time("timestamp", event.Timestamp),
	)
	return nil
}
