package timeline

import (
	"strconv"
	"time"

	"github.com/Davidlouiz/passerelle-vhf/pkg/api"
	"github.com/Davidlouiz/passerelle-vhf/pkg/models"
)

// Horizons offered by the forecast selector, in hours
var Horizons = []int{6, 12, 24, 48, 72, 168}

// Page is the view model of the forecast page
type Page struct {
	Hours     int
	Total     int
	Days      []Day
	Error     string
	Simulated int
}

// Empty reports a successful load with nothing scheduled
func (p Page) Empty() bool {
	return p.Error == "" && p.Total == 0 && len(p.Days) == 0
}

// ParseHours reads the horizon parameter, falling back to the default
func ParseHours(raw string) int {
	hours, err := strconv.Atoi(raw)
	if err != nil {
		return api.DefaultForecastHours
	}
	return api.ClampForecastHours(hours)
}

// NewPage builds the page from a loaded forecast
func NewPage(hours int, forecast *models.Forecast, now time.Time, loc *time.Location) Page {
	page := Page{Hours: hours}
	if forecast == nil {
		return page
	}
	page.Total = forecast.TotalEvents
	if page.Total == 0 {
		page.Total = len(forecast.Events)
	}
	page.Days = GroupByDay(forecast.Events, now, loc)
	for _, ev := range forecast.Events {
		if ev.Simulated {
			page.Simulated++
		}
	}
	return page
}

// ErrorPage builds the page shown when the forecast could not be loaded
func ErrorPage(hours int, err error) Page {
	return Page{Hours: hours, Error: api.ErrorMessage(err)}
}
