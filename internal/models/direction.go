package models

// Direction is a horizontal move on the board
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// Valid reports whether d is left or right
func (d Direction) Valid() bool {
	return d == DirectionLeft || d == DirectionRight
}
