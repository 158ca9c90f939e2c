package savings

import (
	"math/rand/v2"
	"sync"
)

// RandomSource returns a pseudo-random int in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Facts are the savings facts a FactPicker draws from.
var Facts = []string{
	"💡 If everyone in a city of 1 million dried clothes outside on sunny days, it would save $2.3 million and prevent 4,500 tons of CO₂ annually - equal to planting 225,000 trees!",
	"🚗 Walking just 10km per week instead of driving saves you $832 per year and prevents 384kg of CO₂ - that's like planting 19 trees!",
	"🌡️ Lowering your thermostat by just 1°C saves 10% on heating bills. That's about $120-180 per year for the average household!",
	"☀️ Using natural light instead of artificial lighting for just 3 hours a day saves $87 per year and prevents 60kg of CO₂!",
	"💧 A dripping tap wastes 20,000 liters per year - that's $45 down the drain! Fix those leaks!",
	"🌬️ Air-drying clothes instead of using a dryer saves the average family $200 per year and prevents 450kg of CO₂!",
	"🏠 Working from home just 2 days a week saves $2,600 per year in commuting costs and prevents 1,200kg of CO₂!",
	"💡 LED bulbs use 75% less energy than incandescent bulbs. Switching 20 bulbs saves $225 per year!",
	"🌳 One tree absorbs about 20kg of CO₂ per year. Your monthly savings are equivalent to planting a small forest!",
	"⚡ Unplugging devices when not in use (vampire power) saves the average household $165 per year!",
	"🚿 A 5-minute shower uses 40 liters less water than a bath. That's $120 saved per year for a family of 4!",
	"🌞 Solar heating can reduce water heating bills by 50-80%. That's $300-500 per year in savings!",
	"🍃 If every household replaced just one car trip per week with biking, the world would prevent 4 million tons of CO₂ annually!",
	"💨 Opening windows for natural cooling instead of AC for just summer weekends saves $200 and prevents 145kg of CO₂ per year!",
	"🌍 The average person can reduce their carbon footprint by 30% just by making weather-smart choices daily!",
}

// FactPicker selects a savings fact uniformly at random. It is safe for
// concurrent use.
type FactPicker struct {
	mu  sync.Mutex
	rnd RandomSource
}

// NewFactPicker creates a picker using rnd, or the global generator if nil.
func NewFactPicker(rnd RandomSource) *FactPicker {
	if rnd == nil {
		rnd = globalRand{}
	}
	return &FactPicker{rnd: rnd}
}

// Pick returns a random savings fact.
func (p *FactPicker) Pick() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Facts[p.rnd.IntN(len(Facts))]
}
