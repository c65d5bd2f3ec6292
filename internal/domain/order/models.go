package order

import (
	"time"

	"github.com/google/uuid"
)

type Platform string

const (
	PlatformUberEats  Platform = "Uber Eats"
	PlatformFoodpanda Platform = "Foodpanda"
	PlatformUnknown   Platform = "未知平台"
)

// AddressStatus tags a resolver result so consumers can branch on the
// outcome instead of substring-checking sentinel strings.
type AddressStatus int

const (
	AddressResolved AddressStatus = iota
	AddressUnresolved
	// AddressSuspectedDuplicate marks a pickup that resolved to the same
	// text as the dropoff and could not be replaced by any alternate.
	AddressSuspectedDuplicate
)

// Address is the tagged result of a single address resolution. Value is
// populated only when Status == AddressResolved.
type Address struct {
	Status AddressStatus
	Value  string
}

func Resolved(value string) Address {
	return Address{Status: AddressResolved, Value: value}
}

func Unresolved() Address {
	return Address{Status: AddressUnresolved}
}

func SuspectedDuplicate() Address {
	return Address{Status: AddressSuspectedDuplicate}
}

func (a Address) IsResolved() bool {
	return a.Status == AddressResolved
}

// Display renders the address for reports and persistence. Sentinels keep
// the wording users of the original bot already know.
func (a Address) Display() string {
	switch a.Status {
	case AddressResolved:
		return a.Value
	case AddressSuspectedDuplicate:
		return "辨識中/無法擷取(疑同送達)"
	default:
		return "辨識中/無法擷取"
	}
}

// Analysis is the structured outcome of running the parsing core over one
// OCR blob. It carries no distance or blacklist data; those come from
// collaborators later in the pipeline.
type Analysis struct {
	Platform Platform `json:"platform"`
	Features []string `json:"features"`
	Amount   float64  `json:"amount"`
	Pickup   Address  `json:"-"`
	Dropoff  Address  `json:"-"`
}

// ReportInput aggregates everything the report builder needs. Built once
// per request and never mutated afterwards.
type ReportInput struct {
	Platform         Platform
	Features         []string
	Amount           float64
	Pickup           Address
	Dropoff          Address
	DistanceKm       float64
	DurationMin      float64
	BlacklistVerdict string
}

// Order is one fully processed screenshot, as persisted and listed via the
// API.
type Order struct {
	ID               uuid.UUID `json:"id"`
	Platform         Platform  `json:"platform"`
	Amount           float64   `json:"amount"`
	PickupAddress    string    `json:"pickup_address"`
	DropoffAddress   string    `json:"dropoff_address"`
	DistanceKm       float64   `json:"distance_km"`
	DurationMin      float64   `json:"duration_min"`
	EarningsPerKm    float64   `json:"earnings_per_km"`
	Suggestion       string    `json:"suggestion"`
	BlacklistVerdict string    `json:"blacklist_verdict"`
	Features         []string  `json:"features"`
	RawText          string    `json:"-"`
	SnapshotURL      *string   `json:"snapshot_url,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}
