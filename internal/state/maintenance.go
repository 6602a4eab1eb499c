package state

import "github.com/asgsolar/luxclient/internal/domain"

// MaintenanceState mirrors bookings, completed service records and
// currently offered slots.
type MaintenanceState struct {
	Bookings       []domain.MaintenanceBooking
	History        []domain.ServiceHistory
	AvailableSlots []string
}

// WithBookings replaces the booking list wholesale.
func (s MaintenanceState) WithBookings(bookings []domain.MaintenanceBooking) MaintenanceState {
	s.Bookings = append([]domain.MaintenanceBooking(nil), bookings...)
	return s
}

// UpsertBooking replaces a booking in place by id, or appends a new
// one. Length changes only for unseen ids.
func (s MaintenanceState) UpsertBooking(b domain.MaintenanceBooking) MaintenanceState {
	next := append([]domain.MaintenanceBooking(nil), s.Bookings...)
	for i := range next {
		if next[i].ID == b.ID {
			next[i] = b
			s.Bookings = next
			return s
		}
	}
	s.Bookings = append(next, b)
	return s
}

// RemoveBooking drops a booking by id.
func (s MaintenanceState) RemoveBooking(id string) MaintenanceState {
	next := make([]domain.MaintenanceBooking, 0, len(s.Bookings))
	for _, b := range s.Bookings {
		if b.ID != id {
			next = append(next, b)
		}
	}
	s.Bookings = next
	return s
}

// WithServiceHistory replaces the service record list.
func (s MaintenanceState) WithServiceHistory(history []domain.ServiceHistory) MaintenanceState {
	s.History = append([]domain.ServiceHistory(nil), history...)
	return s
}

// WithAvailableSlots replaces the offered slot list.
func (s MaintenanceState) WithAvailableSlots(slots []string) MaintenanceState {
	s.AvailableSlots = append([]string(nil), slots...)
	return s
}
