package domain

// AppNotification is an in-app notification row.
type AppNotification struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
	ActionURL string `json:"action_url,omitempty"`
}

// DeviceRegistration registers a push token for this device.
type DeviceRegistration struct {
	DeviceID  string `json:"device_id" validate:"required"`
	PushToken string `json:"push_token" validate:"required"`
	Platform  string `json:"platform" validate:"required,oneof=ios android"`
}
