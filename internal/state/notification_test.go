package state_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asgsolar/luxclient/internal/domain"
	"github.com/asgsolar/luxclient/internal/state"
)

func TestNotificationState_UnreadCount(t *testing.T) {
	s := state.NewNotificationState()
	assert.Zero(t, s.UnreadCount)

	s = s.WithNotifications([]domain.AppNotification{
		{ID: "n1", Read: true},
		{ID: "n2", Read: false},
	})
	assert.Equal(t, 1, s.UnreadCount, "count recomputed from the list")
}

func TestNotificationState_MarkRead(t *testing.T) {
	s := state.NewNotificationState().WithNotifications([]domain.AppNotification{
		{ID: "n1"},
		{ID: "n2"},
	})
	require.Equal(t, 2, s.UnreadCount)

	s = s.MarkRead("n1")
	assert.True(t, s.Notifications[0].Read)
	assert.Equal(t, 1, s.UnreadCount)

	// Re-marking the same notification changes nothing.
	s = s.MarkRead("n1")
	assert.Equal(t, 1, s.UnreadCount)

	s = s.MarkRead("n2")
	assert.Zero(t, s.UnreadCount)

	// Unknown ids never push the count negative.
	s = s.MarkRead("n9")
	assert.Zero(t, s.UnreadCount)
}

func TestNotificationState_Defaults(t *testing.T) {
	s := state.NewNotificationState()
	assert.Equal(t, domain.DefaultNotificationPreferences(), s.Preferences)

	s = s.WithPushToken("expo-token-1")
	s = s.WithPreferences(domain.NotificationPreferences{PerformanceAlerts: true})
	assert.Equal(t, "expo-token-1", s.PushToken)
	assert.True(t, s.Preferences.PerformanceAlerts)
	assert.False(t, s.Preferences.MaintenanceReminders)
}
