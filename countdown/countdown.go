// countdown/countdown.go
package countdown

import "time"

// TimeLeft is the decomposed remaining duration shown to users.
// Once Ended is true all fields are zero and stay zero.
type TimeLeft struct {
	Days    int  `json:"days"`
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Seconds int  `json:"seconds"`
	Ended   bool `json:"ended"`
}

// Remaining decomposes deadline - now into whole days, hours (0-23),
// minutes (0-59) and seconds (0-59). A deadline exactly equal to now
// counts as ended.
func Remaining(deadline, now time.Time) TimeLeft {
	diff := deadline.Sub(now)
	if diff <= 0 {
		return TimeLeft{Ended: true}
	}

	total := int64(diff / time.Second)
	return TimeLeft{
		Days:    int(total / 86400),
		Hours:   int(total / 3600 % 24),
		Minutes: int(total / 60 % 60),
		Seconds: int(total % 60),
	}
}

// Until is Remaining against the wall clock.
func Until(deadline time.Time) TimeLeft {
	return Remaining(deadline, time.Now())
}

// Tick returns the value one second later using borrow arithmetic,
// without consulting the absolute deadline. Ticking an ended value is
// a no-op.
func (t TimeLeft) Tick() TimeLeft {
	switch {
	case t.Ended:
		return t
	case t.Seconds > 0:
		t.Seconds--
	case t.Minutes > 0:
		t.Minutes--
		t.Seconds = 59
	case t.Hours > 0:
		t.Hours--
		t.Minutes = 59
		t.Seconds = 59
	case t.Days > 0:
		t.Days--
		t.Hours = 23
		t.Minutes = 59
		t.Seconds = 59
	default:
		return TimeLeft{Ended: true}
	}
	return t
}

// TotalSeconds reconstructs the flat remaining duration in seconds.
func (t TimeLeft) TotalSeconds() int64 {
	return int64(t.Days)*86400 + int64(t.Hours)*3600 + int64(t.Minutes)*60 + int64(t.Seconds)
}
