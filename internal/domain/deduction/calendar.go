package deduction

import "time"

// beOffset converts between Gregorian and Buddhist Era years.
const beOffset = 543

// BuddhistYear returns the Buddhist Era year for the given instant.
func BuddhistYear(t time.Time) int {
	return t.Year() + beOffset
}

// GregorianYear converts a Buddhist Era year back to Gregorian.
func GregorianYear(beYear int) int {
	return beYear - beOffset
}
