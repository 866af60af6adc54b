package sim

import (
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// wrapUnit folds x into [0, 1).
func wrapUnit(x float32) float32 {
	wrapped := x - float32(math.Floor(float64(x)))
	if wrapped >= 1 {
		return 0
	}
	return wrapped
}

func wrapPoint(p mgl32.Vec2) mgl32.Vec2 {
	return mgl32.Vec2{wrapUnit(p.X()), wrapUnit(p.Y())}
}

// wrapAngle folds a into (-pi, pi].
func wrapAngle(a float32) float32 {
	wrapped := math.Mod(float64(a)+math.Pi, 2*math.Pi)
	if wrapped <= 0 {
		wrapped += 2 * math.Pi
	}
	return float32(wrapped - math.Pi)
}

func randomPoint(rng *rand.Rand) mgl32.Vec2 {
	return mgl32.Vec2{rng.Float32(), rng.Float32()}
}

func randomHeading(rng *rand.Rand) float32 {
	return rng.Float32() * 2 * math.Pi
}

func distance(a, b mgl32.Vec2) float32 {
	return a.Sub(b).Len()
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
