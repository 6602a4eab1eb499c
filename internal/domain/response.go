package domain

// APIResponse is the envelope every Lux endpoint wraps its payload in.
type APIResponse[T any] struct {
	Success bool         `json:"success"`
	Data    T            `json:"data"`
	Message string       `json:"message,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError is a field-level validation message from the API. The
// client passes these through for display without interpreting them.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// PaginatedResponse wraps paginated list payloads.
type PaginatedResponse[T any] struct {
	Results  []T     `json:"results"`
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// Ack is the minimal success payload some write endpoints return.
type Ack struct {
	Success bool `json:"success"`
}

// UploadResult is returned by the photo upload endpoint.
type UploadResult struct {
	URL string `json:"url"`
}
