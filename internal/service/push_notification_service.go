package service

import (
	"context"
	"fmt"

	"connectrpc.com/connect"

	"github.com/kusalyaa/SpendMart-sub000/internal/auth"
	"github.com/kusalyaa/SpendMart-sub000/internal/models"
)

// RegisterPushToken registers an FCM token for due reminders.
func (s *FinanceService) RegisterPushToken(ctx context.Context, req *connect.Request[RegisterPushTokenRequest]) (*connect.Response[Empty], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	token := req.Msg.FCMToken
	if token == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("fcmToken is required"))
	}

	settings := models.NotificationSettings{PushEnabled: true, FCMToken: token}
	if err := s.store.UpdateNotificationSettings(ctx, claims.UID, settings); err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("update notification settings: %w", err))
	}

	s.log.WithField("user_id", claims.UID).Info("Registered FCM token")
	return connect.NewResponse(&Empty{}), nil
}

// UnregisterPushToken removes the FCM token and disables push reminders.
func (s *FinanceService) UnregisterPushToken(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[Empty], error) {
	claims, err := auth.RequireAuth(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpdateNotificationSettings(ctx, claims.UID, models.NotificationSettings{}); err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("update notification settings: %w", err))
	}

	s.log.WithField("user_id", claims.UID).Info("Unregistered FCM token")
	return connect.NewResponse(&Empty{}), nil
}

// DispatchReminders sends one batch of due reminders. It lets an external
// scheduler drive delivery when the in-process cron ticker is disabled.
func (s *FinanceService) DispatchReminders(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[DispatchRemindersResponse], error) {
	if _, err := auth.RequireAuth(ctx); err != nil {
		return nil, err
	}
	if s.dispatcher == nil {
		return nil, connect.NewError(connect.CodeUnavailable, fmt.Errorf("reminder dispatch is not configured"))
	}

	stats, err := s.dispatcher.DispatchDue(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("dispatch reminders: %w", err))
	}
	return connect.NewResponse(&DispatchRemindersResponse{
		Sent:    stats.Sent,
		Skipped: stats.Skipped,
		Failed:  stats.Failed,
	}), nil
}
