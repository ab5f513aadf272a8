package matching

import "time"

// CalculateAge returns the number of whole years between birthDate and now.
//
// The year difference is decremented when the birthday's month/day has not
// been reached yet. A Feb 29 birthday counts as reached on Mar 1 in non-leap
// years. Future birth dates yield a negative age.
func CalculateAge(birthDate, now time.Time) int {
	by, bm, bd := birthDate.Date()
	ny, nm, nd := now.In(birthDate.Location()).Date()

	age := ny - by
	if nm < bm || (nm == bm && nd < bd) {
		age--
	}
	return age
}
