package countdown

import (
	"testing"
	"time"
)

func TestRemainingDecomposition(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	// 1 day, 1 hour, 1 minute, 1 second out
	got := Remaining(now.Add(90061*time.Second), now)
	want := TimeLeft{Days: 1, Hours: 1, Minutes: 1, Seconds: 1}
	if got != want {
		t.Fatalf("Remaining = %+v, want %+v", got, want)
	}
}

func TestRemainingEnded(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	for _, d := range []time.Duration{0, -time.Second, -48 * time.Hour} {
		got := Remaining(now.Add(d), now)
		if !got.Ended {
			t.Errorf("deadline now%+v: expected ended, got %+v", d, got)
		}
		if got.Days != 0 || got.Hours != 0 || got.Minutes != 0 || got.Seconds != 0 {
			t.Errorf("deadline now%+v: ended value must be all zero, got %+v", d, got)
		}
	}
}

func TestRemainingRoundTrip(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	durations := []time.Duration{
		time.Second,
		59 * time.Second,
		time.Minute,
		time.Hour,
		23*time.Hour + 59*time.Minute + 59*time.Second,
		24 * time.Hour,
		90061 * time.Second,
		365 * 24 * time.Hour,
		time.Second + 999*time.Millisecond, // sub-second part floors away
	}
	for _, d := range durations {
		got := Remaining(now.Add(d), now)
		if got.Ended {
			t.Errorf("%v: unexpectedly ended", d)
			continue
		}
		if want := int64(d / time.Second); got.TotalSeconds() != want {
			t.Errorf("%v: TotalSeconds = %d, want %d (%+v)", d, got.TotalSeconds(), want, got)
		}
		if got.Hours > 23 || got.Minutes > 59 || got.Seconds > 59 {
			t.Errorf("%v: field out of range: %+v", d, got)
		}
	}
}

func TestRemainingDeterministic(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(7 * 24 * time.Hour)

	if Remaining(deadline, now) != Remaining(deadline, now) {
		t.Fatal("Remaining is not deterministic for identical inputs")
	}
}

func TestTickBorrows(t *testing.T) {
	cases := []struct {
		name string
		in   TimeLeft
		want TimeLeft
	}{
		{"seconds", TimeLeft{Seconds: 5}, TimeLeft{Seconds: 4}},
		{"minute borrow", TimeLeft{Minutes: 1}, TimeLeft{Seconds: 59}},
		{"hour borrow", TimeLeft{Hours: 1}, TimeLeft{Minutes: 59, Seconds: 59}},
		{"day borrow", TimeLeft{Days: 1}, TimeLeft{Hours: 23, Minutes: 59, Seconds: 59}},
		{"runs out", TimeLeft{}, TimeLeft{Ended: true}},
		{"ended is absorbing", TimeLeft{Ended: true}, TimeLeft{Ended: true}},
	}
	for _, tc := range cases {
		if got := tc.in.Tick(); got != tc.want {
			t.Errorf("%s: %+v.Tick() = %+v, want %+v", tc.name, tc.in, got, tc.want)
		}
	}
}

func TestTickNeverGoesOutOfRange(t *testing.T) {
	v := TimeLeft{Days: 1, Hours: 0, Minutes: 0, Seconds: 2}
	for i := 0; i < 90000; i++ {
		v = v.Tick()
		if v.Seconds < 0 || v.Seconds > 59 || v.Minutes < 0 || v.Minutes > 59 || v.Hours < 0 || v.Hours > 23 || v.Days < 0 {
			t.Fatalf("tick %d produced out-of-range value %+v", i, v)
		}
	}
	if !v.Ended {
		t.Fatalf("expected ended after exhausting all ticks, got %+v", v)
	}
}

func TestTickMatchesRemaining(t *testing.T) {
	// Local decrement must agree with recomputation one second later.
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	deadline := now.Add(2*time.Hour + 30*time.Second)

	v := Remaining(deadline, now)
	for i := 1; i <= 120; i++ {
		v = v.Tick()
		want := Remaining(deadline, now.Add(time.Duration(i)*time.Second))
		if v != want {
			t.Fatalf("after %d ticks: %+v, recompute says %+v", i, v, want)
		}
	}
}
