// Package advisor maps a weather snapshot to clothing and health advice and
// picks weather facts. Every advisor is a pure function of the snapshot.
package advisor

import (
	"math"

	"github.com/weatherpro/weatherpro/internal/weather"
)

// ClothingAdvice is a clothing recommendation for one snapshot. Empty
// optional strings mean not applicable.
type ClothingAdvice struct {
	Description  string
	MainClothing string
	Accessories  string
	Icons        []string

	ExtraItems    string
	AdditionalTip string
	UVProtection  string
}

// ClothingBand maps a half-open temperature interval to fixed advice. A band
// applies when the temperature is strictly below Below and not below the
// previous band's bound.
type ClothingBand struct {
	Below        float64
	Description  string
	MainClothing string
	Accessories  string
	Icons        []string
}

// ClothingBands is ordered by ascending bound; the last band is open-ended.
var ClothingBands = []ClothingBand{
	{
		Below:        -10,
		Description:  "Extreme cold - Multiple layers essential!",
		MainClothing: "Heavy winter coat, thermal layers, insulated pants",
		Accessories:  "Thick gloves, warm hat, scarf, winter boots",
		Icons:        []string{"🧥", "🧤", "🎩", "🧣"},
	},
	{
		Below:        0,
		Description:  "Freezing temperatures - Bundle up!",
		MainClothing: "Winter coat, warm sweater, jeans or warm pants",
		Accessories:  "Gloves, beanie, scarf, winter shoes",
		Icons:        []string{"🧥", "🧤", "🎩", "🧣"},
	},
	{
		Below:        10,
		Description:  "Cold weather - Warm layers needed",
		MainClothing: "Jacket or coat, long-sleeve shirt, pants",
		Accessories:  "Light gloves, hat optional, closed shoes",
		Icons:        []string{"🧥", "👖", "👟"},
	},
	{
		Below:        15,
		Description:  "Cool weather - Light layers recommended",
		MainClothing: "Light jacket, long-sleeve shirt, pants or jeans",
		Accessories:  "Scarf optional, comfortable shoes",
		Icons:        []string{"🧥", "👕", "👖", "👟"},
	},
	{
		Below:        20,
		Description:  "Mild weather - Comfortable clothing",
		MainClothing: "Long-sleeve shirt or light sweater, pants",
		Accessories:  "Sunglasses, comfortable shoes",
		Icons:        []string{"👕", "👖", "👟", "🕶️"},
	},
	{
		Below:        25,
		Description:  "Pleasant weather - Light clothing",
		MainClothing: "T-shirt or short-sleeve shirt, pants or shorts",
		Accessories:  "Sunglasses, light shoes or sneakers",
		Icons:        []string{"👕", "🩳", "👟", "🕶️"},
	},
	{
		Below:        30,
		Description:  "Warm weather - Stay cool and light",
		MainClothing: "Light t-shirt, shorts or light pants",
		Accessories:  "Sunglasses, sandals or light shoes, sun hat",
		Icons:        []string{"👕", "🩳", "🩴", "🕶️", "🧢"},
	},
	{
		Below:        math.Inf(1),
		Description:  "Hot weather - Minimal, breathable clothing",
		MainClothing: "Very light, breathable clothing, shorts",
		Accessories:  "Sunglasses, sandals, wide-brimmed hat, sunscreen",
		Icons:        []string{"👕", "🩳", "🩴", "🕶️", "🧢"},
	},
}

// clothingOverride adds condition-specific items. The first matching
// override wins.
type clothingOverride struct {
	matches       func(weather.Snapshot) bool
	extraItems    string
	additionalTip string
}

// windyClothingMs is the wind speed above which a windbreaker is suggested.
const windyClothingMs = 10

var clothingOverrides = []clothingOverride{
	{
		matches:       func(s weather.Snapshot) bool { return s.ConditionHasAny("rain", "drizzle") },
		extraItems:    "☔ Umbrella or raincoat essential!",
		additionalTip: "Waterproof shoes recommended",
	},
	{
		matches:       func(s weather.Snapshot) bool { return s.ConditionHasAny("snow") },
		extraItems:    "❄️ Waterproof boots and warm socks",
		additionalTip: "Extra layer for snow activities",
	},
	{
		matches:       func(s weather.Snapshot) bool { return s.ConditionHasAny("thunderstorm") },
		extraItems:    "⛈️ Waterproof gear and avoid metal accessories",
		additionalTip: "Stay indoors if possible",
	},
	{
		matches:       func(s weather.Snapshot) bool { return s.WindSpeedMs > windyClothingMs },
		extraItems:    "🌬️ Windbreaker or wind-resistant jacket",
		additionalTip: "Secure loose items",
	},
}

// UVProtectionNote is set on sunny days.
const UVProtectionNote = "☀️ Apply sunscreen (SPF 30+), wear UV-protective sunglasses"

// ClothingBandFor returns the band containing the temperature. A NaN
// temperature lands in the open-ended band.
func ClothingBandFor(tempC float64) ClothingBand {
	last := len(ClothingBands) - 1
	for _, band := range ClothingBands[:last] {
		if tempC < band.Below {
			return band
		}
	}
	return ClothingBands[last]
}

// Clothing returns clothing advice for the snapshot.
func Clothing(s weather.Snapshot) ClothingAdvice {
	band := ClothingBandFor(s.TemperatureC)

	advice := ClothingAdvice{
		Description:  band.Description,
		MainClothing: band.MainClothing,
		Accessories:  band.Accessories,
		Icons:        append([]string(nil), band.Icons...),
	}

	for _, o := range clothingOverrides {
		if o.matches(s) {
			advice.ExtraItems = o.extraItems
			advice.AdditionalTip = o.additionalTip
			break
		}
	}

	if s.IsSunny() {
		advice.UVProtection = UVProtectionNote
	}

	return advice
}
