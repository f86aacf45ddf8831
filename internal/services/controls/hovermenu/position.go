package hovermenu

import (
	"errors"
	"strconv"
	"strings"
)

// ErrUnknownPosition reports an unrecognized popup position.
var ErrUnknownPosition = errors.New("popup position is unknown")

// Position places the popup relative to the target element.
type Position int

const (
	// PositionCenter is the default.
	PositionCenter Position = iota
	PositionLeft
	PositionRight
	PositionTop
	PositionBottom

	positionCount
)

var positionNames = [positionCount]string{
	PositionCenter: "Center",
	PositionLeft:   "Left",
	PositionRight:  "Right",
	PositionTop:    "Top",
	PositionBottom: "Bottom",
}

func (p Position) String() string {
	if p < 0 || p >= positionCount {
		return "Position(" + strconv.Itoa(int(p)) + ")"
	}
	return positionNames[p]
}

// MarshalText implements encoding.TextMarshaler.
func (p Position) MarshalText() ([]byte, error) {
	if p < 0 || p >= positionCount {
		return nil, ErrUnknownPosition
	}
	return []byte(positionNames[p]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Position) UnmarshalText(text []byte) error {
	parsed, err := ParsePosition(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// ParsePosition maps a position name case-insensitively. Blank input is
// PositionCenter.
func ParsePosition(raw string) (Position, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return PositionCenter, nil
	}
	for idx, name := range positionNames {
		if strings.EqualFold(value, name) {
			return Position(idx), nil
		}
	}
	return PositionCenter, ErrUnknownPosition
}
