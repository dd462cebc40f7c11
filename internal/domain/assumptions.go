package domain

import "github.com/shopspring/decimal"

// Assumptions is the complete input record for one run of the model.
// Counts are whole numbers; money and ratios are decimals. The record is a
// value type: copying it yields an independent set of assumptions.
type Assumptions struct {
	// Local demand
	Population     int             `yaml:"population" json:"population"`
	AdultShare     decimal.Decimal `yaml:"adult_share" json:"adult_share"`
	RunShare       decimal.Decimal `yaml:"run_share" json:"run_share"`
	PairsPerRunner decimal.Decimal `yaml:"pairs_per_runner" json:"pairs_per_runner"`
	CaptureLocal   decimal.Decimal `yaml:"capture_local" json:"capture_local"`
	ASPShoes       decimal.Decimal `yaml:"asp_shoes" json:"asp_shoes"`
	AttachApparel  decimal.Decimal `yaml:"attach_apparel" json:"attach_apparel"`

	// Tourism & events
	TouristFootfall int             `yaml:"tourist_footfall" json:"tourist_footfall"`
	TouristConv     decimal.Decimal `yaml:"tourist_conv" json:"tourist_conv"`
	TouristAOV      decimal.Decimal `yaml:"tourist_aov" json:"tourist_aov"`
	NumEvents       int             `yaml:"num_events" json:"num_events"`
	EventSales      decimal.Decimal `yaml:"event_sales" json:"event_sales"`

	// Services (gait analysis, fitting)
	ServiceUnits int             `yaml:"service_units" json:"service_units"`
	ServicePrice decimal.Decimal `yaml:"service_price" json:"service_price"`

	// Gross margins
	GMShoes   decimal.Decimal `yaml:"gm_shoes" json:"gm_shoes"`
	GMApparel decimal.Decimal `yaml:"gm_apparel" json:"gm_apparel"`
	GMTour    decimal.Decimal `yaml:"gm_tour" json:"gm_tour"`

	// Annual operating costs
	Rent      decimal.Decimal `yaml:"rent" json:"rent"`
	Staff     decimal.Decimal `yaml:"staff" json:"staff"`
	Utilities decimal.Decimal `yaml:"utilities" json:"utilities"`
	Marketing decimal.Decimal `yaml:"marketing" json:"marketing"`
	Misc      decimal.Decimal `yaml:"misc" json:"misc"`
	Other     decimal.Decimal `yaml:"other" json:"other"`

	// Seasonality
	SummerUplift   decimal.Decimal `yaml:"summer_uplift" json:"summer_uplift"`
	ShoulderUplift decimal.Decimal `yaml:"shoulder_uplift" json:"shoulder_uplift"`
}

// Opex returns the sum of the six operating cost lines.
func (a Assumptions) Opex() decimal.Decimal {
	return a.Rent.Add(a.Staff).Add(a.Utilities).Add(a.Marketing).Add(a.Misc).Add(a.Other)
}

// Equal reports whether every field of a and b holds the same value.
func (a Assumptions) Equal(b Assumptions) bool {
	for _, f := range Fields() {
		if !f.Get(a).Equal(f.Get(b)) {
			return false
		}
	}
	return true
}
