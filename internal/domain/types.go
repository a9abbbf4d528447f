package domain

import "strings"

// SeatClass is a fare and inventory category.
type SeatClass string

const (
	ClassGeneral SeatClass = "GEN"
	ClassSleeper SeatClass = "SL"
	ClassAC      SeatClass = "AC"
)

// DefaultSeatClasses is the class set offered when settings don't override it.
var DefaultSeatClasses = []SeatClass{ClassGeneral, ClassSleeper, ClassAC}

// ParseSeatClass normalizes user input ("ac ", "Sl") into a SeatClass.
// It does not check the class against any train.
func ParseSeatClass(s string) SeatClass {
	return SeatClass(strings.ToUpper(strings.TrimSpace(s)))
}

func (c SeatClass) String() string { return string(c) }

// In reports whether c is one of classes.
func (c SeatClass) In(classes []SeatClass) bool {
	for _, k := range classes {
		if k == c {
			return true
		}
	}
	return false
}
