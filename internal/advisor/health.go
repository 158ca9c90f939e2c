package advisor

import (
	"math"

	"github.com/weatherpro/weatherpro/internal/weather"
)

// HealthAdvice holds health guidance for one snapshot. Tips and Warnings are
// ordered and never nil.
type HealthAdvice struct {
	MainAdvice string
	Tips       []string
	Warnings   []string
}

// HealthBand maps a half-open temperature interval to fixed health advice.
type HealthBand struct {
	Below      float64
	MainAdvice string
	Tips       []string
	Warnings   []string
}

// HealthBands is ordered by ascending bound; the last band is open-ended.
var HealthBands = []HealthBand{
	{
		Below:      0,
		MainAdvice: "⚠️ Risk of Hypothermia and Frostbite",
		Tips: []string{
			"💧 Stay hydrated - you lose moisture in cold air",
			"🏃 Limit outdoor exposure to 30 minutes at a time",
			"❤️ Watch for signs of hypothermia: shivering, confusion, drowsiness",
		},
		Warnings: []string{
			"Frostbite can occur in minutes on exposed skin",
			"Breathing cold air can trigger asthma attacks",
		},
	},
	{
		Below:      10,
		MainAdvice: "🌡️ Cold Weather Precautions",
		Tips: []string{
			"🫁 Breathe through your nose to warm the air",
			"💪 Warm up before outdoor exercise",
			"🍲 Eat warm, nutritious meals to maintain body heat",
		},
		Warnings: []string{
			"Cold weather can worsen joint pain",
		},
	},
	{
		Below:      15,
		MainAdvice: "😊 Comfortable Temperature Range",
		Tips: []string{
			"🚶 Great weather for outdoor activities",
			"💧 Maintain regular hydration",
			"🧘 Perfect for exercise and fresh air",
		},
	},
	{
		Below:      25,
		MainAdvice: "☀️ Ideal Weather Conditions",
		Tips: []string{
			"🚴 Excellent for outdoor exercise",
			"🌳 Spend time in nature for mental health",
			"💧 Drink water regularly",
		},
	},
	{
		Below:      30,
		MainAdvice: "🌡️ Warm Weather - Stay Cool",
		Tips: []string{
			"💧 Increase water intake - drink before you're thirsty",
			"⏰ Avoid strenuous activity during peak hours (12-3pm)",
			"🍉 Eat light, hydrating foods like fruits",
			"☀️ Wear sunscreen and reapply every 2 hours",
		},
		Warnings: []string{
			"Risk of dehydration and heat exhaustion",
		},
	},
	{
		Below:      math.Inf(1),
		MainAdvice: "🚨 Heat Warning - High Risk",
		Tips: []string{
			"💧 Drink water every 15-20 minutes, even if not thirsty",
			"🏠 Stay indoors in air-conditioned spaces when possible",
			"🌡️ Check on elderly neighbors and pets",
			"🚫 Avoid alcohol and caffeine - they dehydrate you",
			"🧊 Take cool showers or baths",
		},
		Warnings: []string{
			"⚠️ HIGH RISK of heat stroke and heat exhaustion",
			"Symptoms: Heavy sweating, weakness, dizziness, nausea",
			"Seek immediate medical help if symptoms occur",
		},
	},
}

// Humidity thresholds and tips.
const (
	HighHumidityPct = 80
	LowHumidityPct  = 30
)

var (
	highHumidityTips = []string{
		"💨 High humidity makes it feel hotter - limit outdoor time",
		"🏃 Your body can't cool down as efficiently through sweating",
	}
	lowHumidityTips = []string{
		"💧 Low humidity can dry out skin and airways",
		"🧴 Use moisturizer and lip balm",
		"💨 Use a humidifier indoors if possible",
	}
)

// healthConditionRule appends tips or warnings for a condition keyword. The
// first matching rule wins.
type healthConditionRule struct {
	keyword  string
	tips     []string
	warnings []string
}

var healthConditionRules = []healthConditionRule{
	{
		keyword: "rain",
		tips: []string{
			"🦠 Wash hands frequently - wet weather spreads germs",
			"🌈 Don't let rain stop you - light rain can be refreshing!",
		},
	},
	{
		keyword: "snow",
		tips: []string{
			"⚠️ Watch for icy surfaces - risk of falls and injuries",
			"👀 Snow glare can damage eyes - wear sunglasses",
		},
	},
	{
		keyword: "thunderstorm",
		warnings: []string{
			"⚡ Stay indoors during thunderstorms",
			"Avoid using corded phones and electrical appliances",
		},
	},
}

// Poor visibility often means pollution.
const (
	PoorVisibilityM   = 5000
	poorVisibilityTip = "😷 Poor visibility may indicate air pollution - limit outdoor activity"
)

// HealthBandFor returns the band containing the temperature.
func HealthBandFor(tempC float64) HealthBand {
	last := len(HealthBands) - 1
	for _, band := range HealthBands[:last] {
		if tempC < band.Below {
			return band
		}
	}
	return HealthBands[last]
}

// Health returns health advice for the snapshot. Items accumulate in order:
// temperature band, humidity, condition, visibility.
func Health(s weather.Snapshot) HealthAdvice {
	band := HealthBandFor(s.TemperatureC)

	advice := HealthAdvice{
		MainAdvice: band.MainAdvice,
		Tips:       append([]string{}, band.Tips...),
		Warnings:   append([]string{}, band.Warnings...),
	}

	switch {
	case s.HumidityPct > HighHumidityPct:
		advice.Tips = append(advice.Tips, highHumidityTips...)
	case s.HumidityPct < LowHumidityPct:
		advice.Tips = append(advice.Tips, lowHumidityTips...)
	}

	for _, rule := range healthConditionRules {
		if s.ConditionHasAny(rule.keyword) {
			advice.Tips = append(advice.Tips, rule.tips...)
			advice.Warnings = append(advice.Warnings, rule.warnings...)
			break
		}
	}

	if s.VisibilityM < PoorVisibilityM {
		advice.Tips = append(advice.Tips, poorVisibilityTip)
	}

	return advice
}
