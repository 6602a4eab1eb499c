package query

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/asgsolar/luxclient/internal/domain"
	"github.com/asgsolar/luxclient/internal/transport"
)

var validate = validator.New()

// mutate sends a write through the pipeline, decodes the envelope, and
// invalidates the tags the write touched.
func mutate[T any](ctx context.Context, q *Queries, req transport.Request, tags ...Tag) (T, error) {
	var zero T

	resp, err := q.client.Do(ctx, req)
	if err != nil {
		return zero, err
	}
	data, err := transport.Decode[T](resp)
	if err != nil {
		return zero, err
	}
	if len(tags) > 0 {
		q.cache.Invalidate(tags...)
	}
	return data, nil
}

// Login exchanges site credentials for a user and token pair, persists
// the pair, and installs the authenticated session.
func (q *Queries) Login(ctx context.Context, creds domain.LoginCredentials) (domain.LoginResult, error) {
	if err := validate.Struct(creds); err != nil {
		return domain.LoginResult{}, fmt.Errorf("invalid credentials: %w", err)
	}

	result, err := mutate[domain.LoginResult](ctx, q, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Body:   creds,
	}, TagUser)
	if err != nil {
		return domain.LoginResult{}, err
	}

	if err := q.client.Login(ctx, result.User, result.Token); err != nil {
		return domain.LoginResult{}, err
	}
	return result, nil
}

// SetupBiometrics registers the device's biometric key.
func (q *Queries) SetupBiometrics(ctx context.Context, setup domain.BiometricSetup) error {
	if err := validate.Struct(setup); err != nil {
		return fmt.Errorf("invalid biometric setup: %w", err)
	}
	_, err := mutate[domain.Ack](ctx, q, transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/biometric-setup",
		Body:   setup,
	})
	return err
}

// UpdateProfile patches the user record and refreshes the session's
// copy with the server's view.
func (q *Queries) UpdateProfile(ctx context.Context, updates map[string]any) (domain.User, error) {
	user, err := mutate[domain.User](ctx, q, transport.Request{
		Method: http.MethodPatch,
		Path:   "/user/profile",
		Body:   updates,
	}, TagUser)
	if err != nil {
		return domain.User{}, err
	}
	q.sess.UpdateUser(user)
	return user, nil
}

// BookMaintenance books a service visit for the user's site.
func (q *Queries) BookMaintenance(ctx context.Context, req domain.BookingRequest) (domain.MaintenanceBooking, error) {
	if err := validate.Struct(req); err != nil {
		return domain.MaintenanceBooking{}, fmt.Errorf("invalid booking request: %w", err)
	}
	site := q.siteRef()
	if site == "" {
		return domain.MaintenanceBooking{}, fmt.Errorf("no site reference loaded")
	}
	return mutate[domain.MaintenanceBooking](ctx, q, transport.Request{
		Method: http.MethodPost,
		Path:   "/sites/" + site + "/maintenance/book",
		Body:   req,
	}, TagMaintenance)
}

// CancelBooking cancels a booking by id.
func (q *Queries) CancelBooking(ctx context.Context, bookingID string) error {
	_, err := mutate[domain.Ack](ctx, q, transport.Request{
		Method: http.MethodPost,
		Path:   "/maintenance/" + bookingID + "/cancel",
	}, TagMaintenance)
	return err
}

// UploadMaintenancePhoto attaches a photo to a booking.
func (q *Queries) UploadMaintenancePhoto(ctx context.Context, bookingID, fileName string, photo []byte) (domain.UploadResult, error) {
	return mutate[domain.UploadResult](ctx, q, transport.Request{
		Method: http.MethodPost,
		Path:   "/maintenance/" + bookingID + "/upload-photo",
		Multipart: &transport.MultipartBody{
			FieldName: "photo",
			FileName:  fileName,
			Content:   photo,
		},
	})
}

// RequestBatteryConsultation asks for a consultation callback.
func (q *Queries) RequestBatteryConsultation(ctx context.Context, req domain.ConsultationRequest) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("invalid consultation request: %w", err)
	}
	site := q.siteRef()
	if site == "" {
		return fmt.Errorf("no site reference loaded")
	}
	_, err := mutate[domain.Ack](ctx, q, transport.Request{
		Method: http.MethodPost,
		Path:   "/sites/" + site + "/battery-consultation",
		Body:   req,
	})
	return err
}

// RegisterDevice registers this device's push token.
func (q *Queries) RegisterDevice(ctx context.Context, reg domain.DeviceRegistration) error {
	if err := validate.Struct(reg); err != nil {
		return fmt.Errorf("invalid device registration: %w", err)
	}
	_, err := mutate[domain.Ack](ctx, q, transport.Request{
		Method: http.MethodPost,
		Path:   "/notifications/register-device",
		Body:   reg,
	})
	return err
}

// UpdateNotificationPreferences replaces the user's preferences.
func (q *Queries) UpdateNotificationPreferences(ctx context.Context, prefs domain.NotificationPreferences) error {
	_, err := mutate[domain.Ack](ctx, q, transport.Request{
		Method: http.MethodPut,
		Path:   "/notifications/preferences",
		Body:   prefs,
	}, TagUser)
	return err
}

// MarkNotificationRead marks one notification read.
func (q *Queries) MarkNotificationRead(ctx context.Context, notificationID string) error {
	_, err := mutate[domain.Ack](ctx, q, transport.Request{
		Method: http.MethodPost,
		Path:   "/notifications/" + notificationID + "/mark-read",
	}, TagNotifications)
	return err
}
