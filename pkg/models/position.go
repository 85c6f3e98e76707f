package models

import "math"

// Position is a 2D coordinate in canvas space (not device pixels).
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Position) Add(other Position) Position {
	return Position{X: p.X + other.X, Y: p.Y + other.Y}
}

func (p Position) Sub(other Position) Position {
	return Position{X: p.X - other.X, Y: p.Y - other.Y}
}

func (p Position) Scale(factor float64) Position {
	return Position{X: p.X * factor, Y: p.Y * factor}
}

func (p Position) Length() float64 {
	return math.Hypot(p.X, p.Y)
}

// Normalize returns the unit vector pointing in p's direction. The zero
// vector normalizes to the +x unit vector so layout math stays defined for
// coincident nodes.
func (p Position) Normalize() Position {
	length := p.Length()
	if length == 0 {
		return Position{X: 1, Y: 0}
	}

	return Position{X: p.X / length, Y: p.Y / length}
}

func (p Position) IsZero() bool {
	return p.X == 0 && p.Y == 0
}

// Rect is an axis-aligned rectangle in canvas space.
type Rect struct {
	Min Position
	Max Position
}

func (r Rect) Contains(p Position) bool {
	return p.X >= r.Min.X && p.X <= r.Max.X && p.Y >= r.Min.Y && p.Y <= r.Max.Y
}

func (r Rect) Area() float64 {
	return (r.Max.X - r.Min.X) * (r.Max.Y - r.Min.Y)
}
