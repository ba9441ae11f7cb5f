package domain

import (
	"testing"
	"time"
)

func TestTimeOfDayForHourExhaustive(t *testing.T) {
	expect := func(hour int) TimeOfDay {
		switch {
		case hour >= 21 || hour < 10:
			return TimeOfDayMorning
		case hour >= 10 && hour < 15:
			return TimeOfDayAfternoon
		default:
			return TimeOfDayEvening
		}
	}
	for hour := 0; hour < 24; hour++ {
		got := TimeOfDayForHour(hour)
		if got != expect(hour) {
			t.Fatalf("час %d: ожидали %s, получили %s", hour, expect(hour), got)
		}
	}
}

func TestTimeOfDayForHourBoundaries(t *testing.T) {
	cases := []struct {
		hour int
		want TimeOfDay
	}{
		{0, TimeOfDayMorning},
		{9, TimeOfDayMorning},
		{10, TimeOfDayAfternoon},
		{14, TimeOfDayAfternoon},
		{15, TimeOfDayEvening},
		{20, TimeOfDayEvening},
		{21, TimeOfDayMorning},
		{23, TimeOfDayMorning},
	}
	for _, c := range cases {
		if got := TimeOfDayForHour(c.hour); got != c.want {
			t.Fatalf("час %d: ожидали %s, получили %s", c.hour, c.want, got)
		}
	}
}

func TestTimeOfDayFor(t *testing.T) {
	moment := time.Date(2025, 3, 5, 12, 30, 0, 0, time.Local)
	if got := TimeOfDayFor(moment); got != TimeOfDayAfternoon {
		t.Fatalf("ожидали Afternoon, получили %s", got)
	}
}
