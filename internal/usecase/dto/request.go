package dto

// StationQueryRequest - параметры GET /api/stations как пришли в query string.
// Values stay raw so that unparsable numbers can be reported per field.
type StationQueryRequest struct {
	Status         string `query:"status"`
	ConnectorType  string `query:"connectorType"`
	MinPowerOutput string `query:"minPowerOutput"`
	MaxPowerOutput string `query:"maxPowerOutput"`
	Latitude       string `query:"latitude"`
	Longitude      string `query:"longitude"`
	Radius         string `query:"radius"`
	Page           string `query:"page"`
	Limit          string `query:"limit"`
	SortBy         string `query:"sortBy"`
	SortOrder      string `query:"sortOrder"`
}

// StationRequest - тело POST/PUT /api/stations.
// PUT replaces every mutable field, so both verbs share one shape.
type StationRequest struct {
	Name            string                 `json:"name" validate:"required,min=2,max=100"`
	Location        *LocationRequest       `json:"location" validate:"required"`
	Status          string                 `json:"status" validate:"omitempty,station_status"`
	PowerOutput     *float64               `json:"powerOutput" validate:"required,gte=1,lte=1000"`
	ConnectorType   string                 `json:"connectorType" validate:"required,connector_type"`
	NetworkProvider string                 `json:"networkProvider" validate:"omitempty,max=50"`
	Pricing         *PricingRequest        `json:"pricing" validate:"omitempty"`
	Amenities       []string               `json:"amenities" validate:"omitempty,dive,amenity"`
	OperatingHours  *OperatingHoursRequest `json:"operatingHours" validate:"omitempty"`
	Is24Hours       bool                   `json:"is24Hours"`
	TotalPorts      *int                   `json:"totalPorts" validate:"required,gte=1,lte=50"`
	AvailablePorts  *int                   `json:"availablePorts" validate:"required,gte=0"`
}

// LocationRequest - координаты и адрес
type LocationRequest struct {
	Latitude  *float64 `json:"latitude" validate:"required,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude" validate:"required,gte=-180,lte=180"`
	Address   string   `json:"address" validate:"omitempty,max=200"`
	City      string   `json:"city" validate:"omitempty,max=50"`
	State     string   `json:"state" validate:"omitempty,max=50"`
	ZipCode   string   `json:"zipCode" validate:"omitempty,max=10"`
	Country   string   `json:"country" validate:"omitempty,max=50"`
}

// PricingRequest - тарифы
type PricingRequest struct {
	PerKwh    *float64 `json:"perKwh" validate:"omitempty,gte=0,lte=10"`
	PerMinute *float64 `json:"perMinute" validate:"omitempty,gte=0,lte=5"`
	Currency  string   `json:"currency" validate:"omitempty,max=3"`
}

// DayHoursRequest - часы работы за день
type DayHoursRequest struct {
	Start string `json:"start" validate:"omitempty,hhmm"`
	End   string `json:"end" validate:"omitempty,hhmm"`
}

// OperatingHoursRequest - расписание по дням недели
type OperatingHoursRequest struct {
	Monday    *DayHoursRequest `json:"monday" validate:"omitempty"`
	Tuesday   *DayHoursRequest `json:"tuesday" validate:"omitempty"`
	Wednesday *DayHoursRequest `json:"wednesday" validate:"omitempty"`
	Thursday  *DayHoursRequest `json:"thursday" validate:"omitempty"`
	Friday    *DayHoursRequest `json:"friday" validate:"omitempty"`
	Saturday  *DayHoursRequest `json:"saturday" validate:"omitempty"`
	Sunday    *DayHoursRequest `json:"sunday" validate:"omitempty"`
}

// ValidationMessages implements validator.MessageProvider.
func (StationRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name":               "Station name must be between 2 and 100 characters",
		"location":           "Location is required",
		"location.latitude":  "Latitude must be between -90 and 90",
		"location.longitude": "Longitude must be between -180 and 180",
		"location.address":   "Address cannot exceed 200 characters",
		"location.city":      "City cannot exceed 50 characters",
		"location.state":     "State cannot exceed 50 characters",
		"location.zipCode":   "Zip code cannot exceed 10 characters",
		"location.country":   "Country cannot exceed 50 characters",
		"status":             "Status must be Active, Inactive, Maintenance, or Out of Order",
		"powerOutput":        "Power output must be between 1 and 1000 kW",
		"connectorType":      "Invalid connector type",
		"networkProvider":    "Network provider cannot exceed 50 characters",
		"pricing.perKwh":     "Price per kWh must be between 0 and 10",
		"pricing.perMinute":  "Price per minute must be between 0 and 5",
		"pricing.currency":   "Currency cannot exceed 3 characters",
		"amenities":          "Invalid amenity",
		"totalPorts":         "Total ports must be between 1 and 50",
		"availablePorts":     "Available ports must be a non-negative integer",
	}
}

// AvailabilityRequest - тело PATCH /api/stations/:id/availability
type AvailabilityRequest struct {
	AvailablePorts *int `json:"availablePorts" validate:"required,gte=0"`
}

func (AvailabilityRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"availablePorts": "Available ports must be a non-negative integer",
	}
}

// RegisterRequest - регистрация пользователя
type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=2,max=50,person_name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func (RegisterRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name":             "Name must be between 2 and 50 characters",
		"name.person_name": "Name can only contain letters and spaces",
		"email":            "Please provide a valid email",
	}
}

// LoginRequest - вход по email и паролю
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (LoginRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"email":    "Please provide a valid email",
		"password": "Password is required",
	}
}

// UpdateProfileRequest - частичное обновление профиля
type UpdateProfileRequest struct {
	Name  *string `json:"name" validate:"omitempty,min=2,max=50,person_name"`
	Email *string `json:"email" validate:"omitempty,email"`
}

func (UpdateProfileRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"name":             "Name must be between 2 and 50 characters",
		"name.person_name": "Name can only contain letters and spaces",
		"email":            "Please provide a valid email",
	}
}

// ChangePasswordRequest - смена пароля
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

func (ChangePasswordRequest) ValidationMessages() map[string]string {
	return map[string]string{
		"currentPassword": "Current password is required",
		"newPassword":     "Password must be at least 6 characters long",
	}
}
