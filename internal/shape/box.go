package shape

// Box is an axis-aligned bounding box in image coordinates.
type Box struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains checks if a point is inside the box.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width && y >= b.Y && y <= b.Y+b.Height
}

// IsEmpty checks if the box has zero or negative area.
func (b Box) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// Union returns the smallest box containing both boxes.
func (b Box) Union(other Box) Box {
	if b.IsEmpty() {
		return other
	}
	if other.IsEmpty() {
		return b
	}

	minX := min(b.X, other.X)
	minY := min(b.Y, other.Y)
	maxX := max(b.X+b.Width, other.X+other.Width)
	maxY := max(b.Y+b.Height, other.Y+other.Height)

	return Box{
		X:      minX,
		Y:      minY,
		Width:  maxX - minX,
		Height: maxY - minY,
	}
}

// Center returns the center point of the box.
func (b Box) Center() (float64, float64) {
	return b.X + b.Width/2, b.Y + b.Height/2
}

// boxAround grows a degenerate min/max accumulation into a Box.
func boxAround(minX, minY, maxX, maxY float64) Box {
	return Box{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
