package types

// Direction is a market direction, used for structures (order blocks,
// fair value gaps), bias and trade sides alike.
type Direction string

const (
	DirectionNone Direction = ""
	DirectionUp   Direction = "up"
	DirectionDown Direction = "down"
)

func (d Direction) Opposite() Direction {
	switch d {
	case DirectionUp:
		return DirectionDown
	case DirectionDown:
		return DirectionUp
	}
	return DirectionNone
}

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "LONG"
	case DirectionDown:
		return "SHORT"
	}
	return "NONE"
}

// Sign returns +1 for up, -1 for down, 0 otherwise. Price arithmetic in
// the position manager is written direction-neutrally with this.
func (d Direction) Sign() float64 {
	switch d {
	case DirectionUp:
		return 1
	case DirectionDown:
		return -1
	}
	return 0
}
