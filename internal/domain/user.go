package domain

// User represents the homeowner account tied to a solar installation.
// SiteReference scopes every site query; requests must not be issued
// while it is empty.
type User struct {
	ID                      string                  `json:"id"`
	Email                   string                  `json:"email"`
	SiteReference           string                  `json:"site_reference"`
	FirstName               string                  `json:"first_name"`
	LastName                string                  `json:"last_name"`
	Phone                   string                  `json:"phone,omitempty"`
	Postcode                string                  `json:"postcode"`
	BiometricEnabled        bool                    `json:"biometric_enabled"`
	NotificationPreferences NotificationPreferences `json:"notification_preferences"`
}

// NotificationPreferences mirror the server-side preference record.
type NotificationPreferences struct {
	MaintenanceReminders bool `json:"maintenance_reminders"`
	PerformanceAlerts    bool `json:"performance_alerts"`
	PaymentNotifications bool `json:"payment_notifications"`
	SystemUpdates        bool `json:"system_updates"`
	MarketingEmails      bool `json:"marketing_emails"`
}

// DefaultNotificationPreferences returns the preferences applied to an
// account before the full profile has been fetched.
func DefaultNotificationPreferences() NotificationPreferences {
	return NotificationPreferences{
		MaintenanceReminders: true,
		PerformanceAlerts:    true,
		PaymentNotifications: true,
		SystemUpdates:        true,
		MarketingEmails:      false,
	}
}

// AuthToken is the access/refresh pair issued by the API. ExpiresAt is
// epoch seconds for the access token.
type AuthToken struct {
	Access    string `json:"access"`
	Refresh   string `json:"refresh"`
	ExpiresAt int64  `json:"expires_at"`
}

// LoginCredentials identify a homeowner by installation rather than
// password: site reference plus postcode, optionally the meter serial.
type LoginCredentials struct {
	SiteReference string `json:"site_reference" validate:"required"`
	Postcode      string `json:"postcode" validate:"required"`
	MeterSerial   string `json:"meter_serial,omitempty"`
}

// LoginResult is the payload of a successful login.
type LoginResult struct {
	User  User      `json:"user"`
	Token AuthToken `json:"token"`
}

// BiometricSetup registers a device's biometric key with the API.
type BiometricSetup struct {
	DeviceID     string `json:"device_id" validate:"required"`
	BiometricKey string `json:"biometric_key" validate:"required"`
}
