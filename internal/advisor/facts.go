package advisor

import (
	"math/rand/v2"
	"sync"

	"github.com/weatherpro/weatherpro/internal/weather"
)

// RandomSource returns a pseudo-random int in [0, n). *rand.Rand satisfies it.
type RandomSource interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// Fact temperature thresholds.
const (
	ColdFactBelowC = 0
	HotFactAboveC  = 30
)

var (
	baseFacts = []string{
		"Did you know? The common cold is caused by viruses, NOT by cold weather! However, cold weather can weaken your immune system, making you more susceptible to viruses.",
		"Did you know? Lightning strikes the Earth about 100 times every second! That's over 8 million strikes per day.",
		"Did you know? Snowflakes are actually translucent, not white! They appear white because light bounces off the many surfaces of the ice crystal.",
		"Did you know? The highest temperature ever recorded on Earth was 134°F (56.7°C) in Death Valley, California in 1913!",
		"Did you know? The lowest temperature ever recorded was -128.6°F (-89.2°C) in Antarctica in 1983!",
		"Did you know? A raindrop falls at approximately 20 mph (32 km/h) - fast enough to hurt if it were solid!",
		"Did you know? Hurricanes, typhoons, and cyclones are all the same weather phenomenon - they're just called different names in different parts of the world!",
		"Did you know? Humidity makes hot weather feel hotter because it prevents sweat from evaporating, which is your body's main cooling mechanism!",
		"Did you know? Wind chill can make the temperature feel much colder than it actually is! At -20°C with 50 km/h wind, it can feel like -33°C!",
		"Did you know? Your body loses about 2-3 liters of water per day through breathing, sweating, and other bodily functions - more in hot weather!",
		"Did you know? Frostbite can occur in as little as 5-10 minutes when skin is exposed to temperatures below -28°C!",
		"Did you know? The safest place during a thunderstorm is inside a building or car, NOT under a tree!",
	}
	coldFacts = []string{
		"Did you know? Hot beverages don't actually warm you up! They make you sweat, which cools you down. Lukewarm drinks are better in the cold!",
		"Did you know? Your body burns more calories in cold weather trying to maintain its core temperature!",
		"Did you know? Exposed skin can freeze in under 30 minutes at temperatures below -18°C (0°F)!",
	}
	hotFacts = []string{
		"Did you know? Heat exhaustion can occur when your body temperature reaches 104°F (40°C)!",
		"Did you know? Drinking ice-cold water in hot weather can cause stomach cramps. Room temperature water is better absorbed!",
		"Did you know? Light-colored, loose-fitting clothes reflect heat better than dark, tight clothes!",
	}
	rainFacts = []string{
		"Did you know? 'Petrichor' is the name for the pleasant smell after rain - it's caused by oils released from plants and bacteria!",
		"Did you know? A single thunderstorm cloud can hold up to 275 million gallons of water!",
		"Did you know? Raindrops are shaped like hamburger buns, not teardrops!",
	}
	snowFacts = []string{
		"Did you know? No two snowflakes are exactly alike! Each has a unique crystalline structure.",
		"Did you know? Snow isn't actually frozen rain - it forms when water vapor crystallizes directly from gas to solid!",
		"Did you know? Snow can actually keep you warm! Igloos work because snow is an excellent insulator.",
	}
	sunnyFacts = []string{
		"Did you know? Just 15-20 minutes of sunlight exposure helps your body produce vitamin D!",
		"Did you know? UV rays can penetrate clouds, so you can get sunburned even on overcast days!",
		"Did you know? The sun's UV rays are strongest between 10 AM and 4 PM!",
	}
)

// FactPool returns every fact eligible for the snapshot: the general facts,
// then at most one temperature group, then at most one condition group with
// priority rain, snow, clear.
func FactPool(s weather.Snapshot) []string {
	pool := make([]string, 0, len(baseFacts)+6)
	pool = append(pool, baseFacts...)

	switch {
	case s.TemperatureC < ColdFactBelowC:
		pool = append(pool, coldFacts...)
	case s.TemperatureC > HotFactAboveC:
		pool = append(pool, hotFacts...)
	}

	switch {
	case s.ConditionHasAny("rain"):
		pool = append(pool, rainFacts...)
	case s.ConditionHasAny("snow"):
		pool = append(pool, snowFacts...)
	case s.IsSunny():
		pool = append(pool, sunnyFacts...)
	}

	return pool
}

// FactPicker selects a fact uniformly at random from the snapshot's pool.
// It is safe for concurrent use.
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

// Pick returns a random fact for the snapshot.
func (p *FactPicker) Pick(s weather.Snapshot) string {
	pool := FactPool(s)

	p.mu.Lock()
	i := p.rnd.IntN(len(pool))
	p.mu.Unlock()

	return pool[i]
}
