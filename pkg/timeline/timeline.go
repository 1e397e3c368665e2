package timeline

import (
	"fmt"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// Day is the announcements scheduled on one local calendar day
type Day struct {
	Date   time.Time
	Label  string
	Events []Event
}

// Event is a forecast event prepared for display
type Event struct {
	models.ForecastEvent
	Local time.Time
	Delay string
}

// Clock returns the local transmission time as HH:MM:SS
func (e Event) Clock() string {
	return e.Local.Format("15:04:05")
}

// GroupByDay partitions events by the local calendar day of their
// transmission time. Groups keep the order in which their first event
// appears and events keep the order of the input.
func GroupByDay(events []models.ForecastEvent, now time.Time, loc *time.Location) []Day {
	if loc == nil {
		loc = time.Local
	}

	var days []Day
	index := make(map[string]int)
	for _, ev := range events {
		local := ev.TxTime.In(loc)
		key := local.Format("2006-01-02")

		i, ok := index[key]
		if !ok {
			y, m, d := local.Date()
			date := time.Date(y, m, d, 0, 0, 0, 0, loc)
			days = append(days, Day{Date: date, Label: DayLabel(date, now, loc)})
			i = len(days) - 1
			index[key] = i
		}

		days[i].Events = append(days[i].Events, Event{
			ForecastEvent: ev,
			Local:         local,
			Delay:         FormatDelay(ev.TxTime.Sub(now)),
		})
	}
	return days
}

// DayLabel names a day relative to now: Today, Tomorrow, or the full date
func DayLabel(day, now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	day = day.In(loc)
	today := now.In(loc)
	tomorrow := today.AddDate(0, 0, 1)

	switch {
	case sameDay(day, today):
		return "Today"
	case sameDay(day, tomorrow):
		return "Tomorrow"
	default:
		return day.Format("Monday, 2 January 2006")
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatDelay renders a countdown using the largest non-zero unit, with the
// next unit as a remainder for days and hours. Negative delays are past.
func FormatDelay(d time.Duration) string {
	if d < 0 {
		return "past"
	}

	seconds := int64(d / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24

	switch {
	case days > 0:
		return fmt.Sprintf("in %dd %dh", days, hours%24)
	case hours > 0:
		return fmt.Sprintf("in %dh %dmin", hours, minutes%60)
	case minutes > 0:
		return fmt.Sprintf("in %dmin", minutes)
	default:
		return fmt.Sprintf("in %ds", seconds)
	}
}
