// Package savings suggests weather-dependent ways to save money, energy and
// CO2, and summarizes them.
package savings

import (
	"github.com/weatherpro/weatherpro/internal/weather"
)

// Opportunity is one resource-saving suggestion. The savings figures are
// fixed estimates, not measurements.
type Opportunity struct {
	Icon        string
	Title       string
	Description string
	Reason      string

	MoneySaved  float64 // in dollars
	EnergySaved float64 // in kWh
	CO2Saved    float64 // in kg
}

// rule adds its opportunities when applies returns true.
type rule struct {
	applies       func(weather.Snapshot) bool
	opportunities []Opportunity
}

var (
	dryClothesOutside = Opportunity{
		Icon:        "☀️",
		Title:       "DRY CLOTHES OUTSIDE",
		Description: "Instead of: Electric dryer (3 loads)",
		MoneySaved:  2.55,
		EnergySaved: 7.5,
		CO2Saved:    5.4,
		Reason:      "Perfect sunny weather for natural drying!",
	}
	useNaturalLight = Opportunity{
		Icon:        "💡",
		Title:       "USE NATURAL LIGHT",
		Description: "Instead of: Indoor lights (until sunset)",
		MoneySaved:  0.80,
		EnergySaved: 2.4,
		CO2Saved:    1.7,
		Reason:      "Bright sunshine means free natural lighting!",
	}
	walkOrBike = Opportunity{
		Icon:        "🚶",
		Title:       "WALK OR BIKE TODAY",
		Description: "Instead of: Driving (10km round trip)",
		MoneySaved:  3.20,
		EnergySaved: 15.0,
		CO2Saved:    2.4,
		Reason:      "Perfect weather for outdoor activity!",
	}
	openWindows = Opportunity{
		Icon:        "💨",
		Title:       "OPEN WINDOWS (SKIP AC)",
		Description: "Instead of: Air conditioning (6 hours)",
		MoneySaved:  1.50,
		EnergySaved: 4.2,
		CO2Saved:    3.1,
		Reason:      "Pleasant temperature - natural ventilation works!",
	}
	strategicCooling = Opportunity{
		Icon:        "🌡️",
		Title:       "STRATEGIC COOLING",
		Description: "Close blinds during peak hours, use fans instead of AC",
		MoneySaved:  3.80,
		EnergySaved: 10.5,
		CO2Saved:    7.5,
		Reason:      "Reduce AC usage with smart cooling strategies",
	}
	coldMeals = Opportunity{
		Icon:        "🥗",
		Title:       "COLD MEALS TODAY",
		Description: "Instead of: Using oven/stove (2 hours)",
		MoneySaved:  0.65,
		EnergySaved: 1.8,
		CO2Saved:    1.3,
		Reason:      "Skip heating up your kitchen in this heat!",
	}
	layerUp = Opportunity{
		Icon:        "🧥",
		Title:       "LAYER UP, HEAT DOWN",
		Description: "Lower thermostat by 2°C, wear extra layer",
		MoneySaved:  2.10,
		EnergySaved: 6.0,
		CO2Saved:    4.2,
		Reason:      "Stay warm naturally and save on heating!",
	}
	solarHeating = Opportunity{
		Icon:        "🌞",
		Title:       "SOLAR HEATING",
		Description: "Open curtains on sunny side for passive heating",
		MoneySaved:  1.50,
		EnergySaved: 4.5,
		CO2Saved:    3.2,
		Reason:      "Free warmth from the sun!",
	}
	skipLawnWatering = Opportunity{
		Icon:        "💧",
		Title:       "SKIP LAWN WATERING",
		Description: "Nature's watering your garden for free!",
		MoneySaved:  0.40,
		EnergySaved: 1.2,
		CO2Saved:    0.8,
		Reason:      "Rain = free irrigation!",
	}
	workFromHome = Opportunity{
		Icon:        "🏠",
		Title:       "WORK FROM HOME",
		Description: "Instead of: Commuting (20km round trip)",
		MoneySaved:  6.40,
		EnergySaved: 30.0,
		CO2Saved:    4.8,
		Reason:      "Skip the wet commute, save big!",
	}
	collectRainwater = Opportunity{
		Icon:        "🌧️",
		Title:       "COLLECT RAINWATER",
		Description: "Save 20-50L for future plant watering",
		MoneySaved:  0.15,
		EnergySaved: 0.5,
		CO2Saved:    0.3,
		Reason:      "Free water for your plants!",
	}
	windPoweredDrying = Opportunity{
		Icon:        "🌬️",
		Title:       "WIND-POWERED DRYING",
		Description: "Dry clothes extra fast with natural wind",
		MoneySaved:  2.55,
		EnergySaved: 7.5,
		CO2Saved:    5.4,
		Reason:      "Strong winds = super-fast drying!",
	}
	naturalVentilation = Opportunity{
		Icon:        "💨",
		Title:       "NATURAL VENTILATION",
		Description: "Skip electric fans, use natural airflow",
		MoneySaved:  0.35,
		EnergySaved: 1.0,
		CO2Saved:    0.7,
		Reason:      "Free natural air circulation!",
	}
	batchCooking = Opportunity{
		Icon:        "🍲",
		Title:       "BATCH COOKING",
		Description: "Cook multiple meals - oven warmth heats kitchen",
		MoneySaved:  0.90,
		EnergySaved: 2.7,
		CO2Saved:    1.9,
		Reason:      "Double benefit: meals prepped + free heating!",
	}
)

// WindyMs is the wind speed above which wind-based savings apply.
const WindyMs = 5

func isRainy(s weather.Snapshot) bool {
	return s.ConditionHasAny("rain", "drizzle")
}

// rules are evaluated in order and are not mutually exclusive.
var rules = []rule{
	// sunny
	{
		applies:       weather.Snapshot.IsSunny,
		opportunities: []Opportunity{dryClothesOutside, useNaturalLight},
	},
	// walkable
	{
		applies: func(s weather.Snapshot) bool {
			return s.TemperatureC > 10 && s.TemperatureC < 28 && !s.ConditionHasAny("rain", "storm")
		},
		opportunities: []Opportunity{walkOrBike},
	},
	// warm
	{
		applies: func(s weather.Snapshot) bool {
			return s.TemperatureC >= 20 && s.TemperatureC < 30
		},
		opportunities: []Opportunity{openWindows},
	},
	// hot
	{
		applies:       func(s weather.Snapshot) bool { return s.TemperatureC >= 30 },
		opportunities: []Opportunity{strategicCooling, coldMeals},
	},
	// cool
	{
		applies:       func(s weather.Snapshot) bool { return s.TemperatureC < 15 },
		opportunities: []Opportunity{layerUp},
	},
	// cool and sunny
	{
		applies:       func(s weather.Snapshot) bool { return s.TemperatureC < 15 && s.IsSunny() },
		opportunities: []Opportunity{solarHeating},
	},
	// rainy
	{
		applies:       isRainy,
		opportunities: []Opportunity{skipLawnWatering, workFromHome, collectRainwater},
	},
	// windy
	{
		applies:       func(s weather.Snapshot) bool { return s.WindSpeedMs > WindyMs },
		opportunities: []Opportunity{windPoweredDrying, naturalVentilation},
	},
	// cold
	{
		applies:       func(s weather.Snapshot) bool { return s.TemperatureC < 10 },
		opportunities: []Opportunity{batchCooking},
	},
}

// Opportunities returns every opportunity that applies to the snapshot, in
// a fixed evaluation order. The result is never nil.
func Opportunities(s weather.Snapshot) []Opportunity {
	ops := []Opportunity{}
	for _, r := range rules {
		if r.applies(s) {
			ops = append(ops, r.opportunities...)
		}
	}
	return ops
}
