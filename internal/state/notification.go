package state

import "github.com/asgsolar/luxclient/internal/domain"

// NotificationState mirrors the in-app notification list and the
// device's push registration.
type NotificationState struct {
	Notifications []domain.AppNotification
	UnreadCount   int
	PushToken     string
	Preferences   domain.NotificationPreferences
}

// NewNotificationState returns the initial state with default
// preferences.
func NewNotificationState() NotificationState {
	return NotificationState{
		Preferences: domain.DefaultNotificationPreferences(),
	}
}

// WithNotifications replaces the list and recomputes the unread count
// from scratch.
func (s NotificationState) WithNotifications(items []domain.AppNotification) NotificationState {
	s.Notifications = append([]domain.AppNotification(nil), items...)
	unread := 0
	for _, n := range s.Notifications {
		if !n.Read {
			unread++
		}
	}
	s.UnreadCount = unread
	return s
}

// MarkRead marks one notification read, decrementing the unread count
// by exactly one. Re-marking a read notification changes nothing; the
// count never goes negative.
func (s NotificationState) MarkRead(id string) NotificationState {
	next := append([]domain.AppNotification(nil), s.Notifications...)
	for i := range next {
		if next[i].ID == id {
			if !next[i].Read {
				next[i].Read = true
				if s.UnreadCount > 0 {
					s.UnreadCount--
				}
			}
			break
		}
	}
	s.Notifications = next
	return s
}

// WithPushToken records the device push token.
func (s NotificationState) WithPushToken(token string) NotificationState {
	s.PushToken = token
	return s
}

// WithPreferences replaces the preference record.
func (s NotificationState) WithPreferences(prefs domain.NotificationPreferences) NotificationState {
	s.Preferences = prefs
	return s
}
