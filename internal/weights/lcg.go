package weights

// Constants of the linear congruential generator used for seeded weights.
const (
	lcgMultiplier = 9301
	lcgIncrement  = 49297
	lcgModulus    = 233280
)

// Source yields uniform values in [0,1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

// LCG is a small reproducible generator: identical seeds yield identical
// sequences on every platform.
type LCG struct {
	state int64
}

func NewLCG(seed int64) *LCG {
	state := seed % lcgModulus
	if state < 0 {
		state += lcgModulus
	}
	return &LCG{state: state}
}

func (g *LCG) Float64() float64 {
	g.state = (g.state*lcgMultiplier + lcgIncrement) % lcgModulus
	return float64(g.state) / lcgModulus
}
