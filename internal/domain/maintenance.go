package domain

// MaintenanceBooking is a scheduled or historical service visit.
type MaintenanceBooking struct {
	ID                     string   `json:"id"`
	SiteID                 string   `json:"site_id"`
	ServiceType            string   `json:"service_type"`
	AppointmentDate        string   `json:"appointment_date"`
	TimeSlot               string   `json:"time_slot"`
	Status                 string   `json:"status"`
	Priority               string   `json:"priority"`
	TechnicianName         string   `json:"technician_name,omitempty"`
	EstimatedDurationHours float64  `json:"estimated_duration_hours"`
	ServiceDescription     string   `json:"service_description"`
	SpecialRequirements    string   `json:"special_requirements,omitempty"`
	WorkCompleted          string   `json:"work_completed,omitempty"`
	PartsReplaced          []string `json:"parts_replaced,omitempty"`
	FollowUpRequired       bool     `json:"follow_up_required,omitempty"`
	CustomerRating         int      `json:"customer_rating,omitempty"`
	CustomerFeedback       string   `json:"customer_feedback,omitempty"`
	BeforePhotos           []string `json:"before_photos,omitempty"`
	AfterPhotos            []string `json:"after_photos,omitempty"`
	ServiceReportURL       string   `json:"service_report_url,omitempty"`
}

// BookingRequest is the payload for booking a maintenance visit.
type BookingRequest struct {
	ServiceType         string `json:"service_type" validate:"required,oneof=annual_check repair cleaning inverter_service"`
	AppointmentDate     string `json:"appointment_date" validate:"required"`
	TimeSlot            string `json:"time_slot" validate:"required,oneof=morning afternoon all_day"`
	SpecialRequirements string `json:"special_requirements,omitempty"`
}

// ServiceHistory is one completed service record.
type ServiceHistory struct {
	ID               string   `json:"id"`
	Date             string   `json:"date"`
	ServiceType      string   `json:"service_type"`
	Technician       string   `json:"technician"`
	WorkPerformed    string   `json:"work_performed"`
	PartsReplaced    []string `json:"parts_replaced"`
	Cost             float64  `json:"cost"`
	WarrantyExtended bool     `json:"warranty_extended,omitempty"`
	NextServiceDue   string   `json:"next_service_due,omitempty"`
	Photos           []string `json:"photos"`
	ReportURL        string   `json:"report_url,omitempty"`
}
