package models

import (
	"github.com/weatherpro/weatherpro/internal/advisor"
	"github.com/weatherpro/weatherpro/internal/savings"
	"github.com/weatherpro/weatherpro/internal/weather"
)

// Weather is the current conditions for a city.
type Weather struct {
	City                 string     `json:"city"`
	TemperatureC         float64    `json:"temperatureC"`
	FeelsLikeC           float64    `json:"feelsLikeC"`
	HumidityPct          int        `json:"humidityPct"`
	PressureHPa          int        `json:"pressureHPa"`
	CloudinessPct        int        `json:"cloudinessPct"`
	WindSpeedMs          float64    `json:"windSpeedMs"`
	VisibilityM          int        `json:"visibilityM"`
	ConditionMain        string     `json:"conditionMain"`
	ConditionDescription string     `json:"conditionDescription"`
	ConditionIcon        string     `json:"conditionIcon"`
	Emoji                string     `json:"emoji"`
	Sunrise              *Timestamp `json:"sunrise,omitempty"`
	Sunset               *Timestamp `json:"sunset,omitempty"`
	FetchedAt            Timestamp  `json:"fetchedAt"`
}

// NewWeather converts a snapshot.
func NewWeather(s weather.Snapshot) Weather {
	return Weather{
		City:                 s.City,
		TemperatureC:         s.TemperatureC,
		FeelsLikeC:           s.FeelsLikeC,
		HumidityPct:          s.HumidityPct,
		PressureHPa:          s.PressureHPa,
		CloudinessPct:        s.CloudinessPct,
		WindSpeedMs:          s.WindSpeedMs,
		VisibilityM:          s.VisibilityM,
		ConditionMain:        s.ConditionMain,
		ConditionDescription: s.ConditionDescription,
		ConditionIcon:        s.ConditionIcon,
		Emoji:                weather.IconEmoji(s.ConditionIcon),
		Sunrise:              NewTimestamp(s.Sunrise),
		Sunset:               NewTimestamp(s.Sunset),
		FetchedAt:            Timestamp(s.FetchedAt),
	}
}

// ClothingAdvice is what to wear.
type ClothingAdvice struct {
	Description   string   `json:"description"`
	MainClothing  string   `json:"mainClothing"`
	Accessories   string   `json:"accessories"`
	Icons         []string `json:"icons"`
	ExtraItems    string   `json:"extraItems,omitempty"`
	AdditionalTip string   `json:"additionalTip,omitempty"`
	UVProtection  string   `json:"uvProtection,omitempty"`
}

// NewClothingAdvice converts advisor output.
func NewClothingAdvice(a advisor.ClothingAdvice) ClothingAdvice {
	return ClothingAdvice(a)
}

// HealthAdvice is the health guidance for the conditions.
type HealthAdvice struct {
	MainAdvice string   `json:"mainAdvice"`
	Tips       []string `json:"tips"`
	Warnings   []string `json:"warnings"`
}

// NewHealthAdvice converts advisor output.
func NewHealthAdvice(a advisor.HealthAdvice) HealthAdvice {
	return HealthAdvice(a)
}

// Fact is a single fact string.
type Fact struct {
	Fact string `json:"fact"`
}

// SavingsOpportunity is one weather-dependent way to save money and energy.
type SavingsOpportunity struct {
	Icon        string  `json:"icon"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Reason      string  `json:"reason"`
	MoneySaved  float64 `json:"moneySaved"`
	EnergySaved float64 `json:"energySavedKWh"`
	CO2Saved    float64 `json:"co2SavedKg"`
}

// SavingsSummary totals a set of opportunities.
type SavingsSummary struct {
	TotalMoney      float64 `json:"totalMoney"`
	TotalEnergy     float64 `json:"totalEnergyKWh"`
	TotalCO2        float64 `json:"totalCo2Kg"`
	TreesEquivalent float64 `json:"treesEquivalent"`
}

// Savings is today's opportunities with their totals and a savings fact.
type Savings struct {
	Opportunities []SavingsOpportunity `json:"opportunities"`
	Summary       SavingsSummary       `json:"summary"`
	Fact          string               `json:"fact"`
}

// NewSavings converts savings output.
func NewSavings(ops []savings.Opportunity, fact string) Savings {
	out := Savings{
		Opportunities: make([]SavingsOpportunity, 0, len(ops)),
		Fact:          fact,
	}
	for _, o := range ops {
		out.Opportunities = append(out.Opportunities, SavingsOpportunity(o))
	}
	sum := savings.DailySummaryOf(ops)
	out.Summary = SavingsSummary(sum)
	return out
}

// MonthlySummary is the tracked savings for the month.
type MonthlySummary struct {
	TotalMoney      float64 `json:"totalMoney"`
	TotalEnergy     float64 `json:"totalEnergyKWh"`
	TotalCO2        float64 `json:"totalCo2Kg"`
	DaysActive      int     `json:"daysActive"`
	CurrentStreak   int     `json:"currentStreak"`
	TreesEquivalent float64 `json:"treesEquivalent"`
}

// NewMonthlySummary converts a history summary.
func NewMonthlySummary(m savings.MonthlySummary) MonthlySummary {
	return MonthlySummary(m)
}

// Dashboard is a snapshot with every advisor's output computed from it.
type Dashboard struct {
	Weather  Weather        `json:"weather"`
	Clothing ClothingAdvice `json:"clothing"`
	Health   HealthAdvice   `json:"health"`
	Fact     string         `json:"fact"`
	Savings  Savings        `json:"savings"`
}

// CityList is the preset cities and the selected one.
type CityList struct {
	Current string   `json:"current"`
	Cities  []string `json:"cities"`
}

// SelectCityRequest is the body of PUT /v1/dashboard/city.
type SelectCityRequest struct {
	City string `json:"city"`
}
