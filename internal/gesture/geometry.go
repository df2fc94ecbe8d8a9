package gesture

// Point is a pointer position in screen units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned box.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Target is a drop affordance: a filter chip and where it sits on screen.
type Target struct {
	Filter string `json:"filter"`
	Bounds Rect   `json:"bounds"`
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
