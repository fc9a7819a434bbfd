package models

// Location is a depot or customer entry of an optimization request.
type Location struct {
	Latitude  float64 `json:"lat"                    validate:"gte=-90,lte=90"`
	Longitude float64 `json:"lon"                    validate:"gte=-180,lte=180"`
	Name      string  `json:"LocationName,omitempty"`
	Demand    int     `json:"demand,omitempty"       validate:"gte=0"`
}

// OptimizeRequest is sent to the optimizer to produce a result set and its baseline.
type OptimizeRequest struct {
	Depot       *Location  `json:"depot"              validate:"required"`
	Customers   []Location `json:"customers"          validate:"required,min=1,dive"`
	NumVehicles int        `json:"numVehicles"        validate:"gte=1,lte=50"`
	Capacity    int        `json:"capacity,omitempty" validate:"gte=0"`
}

// Insight is a natural-language explanation produced by the remote insights service.
type Insight struct {
	Vehicle     string `json:"vehicle"`
	Explanation string `json:"explanation"`
}
