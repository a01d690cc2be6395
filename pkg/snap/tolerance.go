package snap

// DefaultPixelThreshold is the on-screen snap distance in pixels.
const DefaultPixelThreshold = 7

// BreakMode selects the tier used when re-evaluating an already matched
// pair.
type BreakMode int

const (
	// BreakFirst uses the loose break tolerance.
	BreakFirst BreakMode = iota
	// BreakSecond uses a quarter of the break tolerance.
	BreakSecond
)

func (m BreakMode) String() string {
	if m == BreakSecond {
		return "second"
	}
	return "first"
}

// Tolerance converts a pixel threshold into world units for the active
// view. The zero PixelThreshold means DefaultPixelThreshold.
type Tolerance struct {
	PixelThreshold float64
	WorldPerPixel  float64
}

// NewTolerance returns the default threshold at the given view scale.
func NewTolerance(worldPerPixel float64) Tolerance {
	return Tolerance{PixelThreshold: DefaultPixelThreshold, WorldPerPixel: worldPerPixel}
}

// Intensity is the snap distance in world units.
func (t Tolerance) Intensity() float64 {
	px := t.PixelThreshold
	if px == 0 {
		px = DefaultPixelThreshold
	}
	return px * t.WorldPerPixel
}

// BreakIntensity is twice the snap distance.
func (t Tolerance) BreakIntensity() float64 {
	return 2 * t.Intensity()
}

// Break returns the world distance used for the given break tier.
func (t Tolerance) Break(mode BreakMode) float64 {
	if mode == BreakSecond {
		return t.BreakIntensity() / 4
	}
	return t.BreakIntensity()
}
