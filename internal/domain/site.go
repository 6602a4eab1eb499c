package domain

// SystemHealth is the coarse health rollup shown on the dashboard.
type SystemHealth string

const (
	HealthGood    SystemHealth = "good"
	HealthWarning SystemHealth = "warning"
	HealthError   SystemHealth = "error"
	HealthOffline SystemHealth = "offline"
)

// SolarSite is the dashboard view of an installation.
type SolarSite struct {
	ID                      string       `json:"id"`
	Reference               string       `json:"reference"`
	Postcode                string       `json:"postcode"`
	InstallationDate        string       `json:"installation_date"`
	PanelCapacityKW         float64      `json:"panel_capacity_kw"`
	InverterType            string       `json:"inverter_type"`
	Orientation             string       `json:"orientation"`
	TiltAngle               float64      `json:"tilt_angle"`
	CurrentGenerationKW     float64      `json:"current_generation_kw"`
	TodayGenerationKWH      float64      `json:"today_generation_kwh"`
	MonthlyGenerationKWH    float64      `json:"monthly_generation_kwh"`
	YearlyGenerationKWH     float64      `json:"yearly_generation_kwh"`
	FITRatePerKWH           float64      `json:"fit_rate_per_kwh"`
	ExportRatePerKWH        float64      `json:"export_rate_per_kwh"`
	EstimatedMonthlyPayment float64      `json:"estimated_monthly_payment"`
	SystemHealth            SystemHealth `json:"system_health"`
	LastReadingDate         string       `json:"last_reading_date"`
	ConsecutiveZeroReads    int          `json:"consecutive_zero_reads"`
	CurrentWeather          WeatherData  `json:"current_weather"`
}

// WeatherData is the current conditions block attached to a site.
type WeatherData struct {
	TemperatureC          float64 `json:"temperature_c"`
	Conditions            string  `json:"conditions"`
	CloudCoverPercent     float64 `json:"cloud_cover_percent"`
	WindSpeedKMH          float64 `json:"wind_speed_kmh"`
	SolarIrradiance       float64 `json:"solar_irradiance"`
	ForecastGenerationKWH float64 `json:"forecast_generation_kwh"`
}

// LiveGeneration is the polled live reading.
type LiveGeneration struct {
	CurrentKW float64 `json:"current_kw"`
	TodayKWH  float64 `json:"today_kwh"`
}

// GenerationHistory is one day of generation data. Date is the
// identity key: history lists are deduplicated and ordered by it.
type GenerationHistory struct {
	Date              string  `json:"date"`
	GenerationKWH     float64 `json:"generation_kwh"`
	ExportKWH         float64 `json:"export_kwh"`
	ConsumptionKWH    float64 `json:"consumption_kwh"`
	WeatherConditions string  `json:"weather_conditions"`
	IrradianceWHM2    float64 `json:"irradiance_wh_m2"`
	TemperatureC      float64 `json:"temperature_c"`
}

// HistoryPeriod selects the range of a generation history query.
type HistoryPeriod string

const (
	PeriodWeek  HistoryPeriod = "week"
	PeriodMonth HistoryPeriod = "month"
	PeriodYear  HistoryPeriod = "year"
)

// Valid reports whether the period is one the API accepts.
func (p HistoryPeriod) Valid() bool {
	return p == PeriodWeek || p == PeriodMonth || p == PeriodYear
}

// FITPayment is one feed-in-tariff statement line.
type FITPayment struct {
	ID                string  `json:"id"`
	PeriodStart       string  `json:"period_start"`
	PeriodEnd         string  `json:"period_end"`
	GenerationKWH     float64 `json:"generation_kwh"`
	ExportKWH         float64 `json:"export_kwh"`
	GenerationPayment float64 `json:"generation_payment"`
	ExportPayment     float64 `json:"export_payment"`
	TotalPayment      float64 `json:"total_payment"`
	PaymentDate       string  `json:"payment_date"`
	Status            string  `json:"status"`
	StatementURL      string  `json:"statement_url,omitempty"`
}

// PerformanceAlert flags a site condition that needs attention.
type PerformanceAlert struct {
	ID             string  `json:"id"`
	Type           string  `json:"type"`
	Severity       string  `json:"severity"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	CreatedAt      string  `json:"created_at"`
	ResolvedAt     string  `json:"resolved_at,omitempty"`
	ActionRequired string  `json:"action_required,omitempty"`
	EstimatedCost  float64 `json:"estimated_cost,omitempty"`
}

// BatteryQuote is a storage retrofit quote for a site.
type BatteryQuote struct {
	ID                       string  `json:"id"`
	BatteryCapacityKWH       float64 `json:"battery_capacity_kwh"`
	EstimatedCost            float64 `json:"estimated_cost"`
	MonthlySavingsEstimate   float64 `json:"monthly_savings_estimate"`
	PaybackPeriodYears       float64 `json:"payback_period_years"`
	InstallationDateEstimate string  `json:"installation_date_estimate"`
	QuoteValidUntil          string  `json:"quote_valid_until"`
	IncludesInstallation     bool    `json:"includes_installation"`
	WarrantyYears            int     `json:"warranty_years"`
	Brand                    string  `json:"brand"`
	Model                    string  `json:"model"`
}

// ConsultationRequest asks for a battery consultation callback.
type ConsultationRequest struct {
	PreferredContact string `json:"preferred_contact" validate:"required,oneof=phone email"`
	Availability     string `json:"availability" validate:"required"`
}
