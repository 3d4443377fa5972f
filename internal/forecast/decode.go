package forecast

import (
	"fmt"
	"time"

	"weather-dashboard/internal/apperr"
	"weather-dashboard/internal/validation"
)

// Response is the civil-light JSON document.
type Response struct {
	Product    string  `json:"product"`
	Init       string  `json:"init"`
	DataSeries []Entry `json:"dataseries"`
}

// Entry is one forecast day as sent by the weather service.
type Entry struct {
	Date      int         `json:"date"`
	Weather   string      `json:"weather"`
	Temp2m    Temperature `json:"temp2m"`
	Wind10mMx int         `json:"wind10m_max"`
}

// Temperature is the daily range in degrees Celsius.
type Temperature struct {
	Max int `json:"max"`
	Min int `json:"min"`
}

// Day is a display-ready forecast row.
type Day struct {
	Date      string
	Weather   string
	TempRange string
	WindSpeed string
}

// dateLayout is how a forecast day is shown.
const dateLayout = "Mon Jan 2"

// DecodeDate unpacks a YYYYMMDD integer into a calendar date in loc. Values
// that do not name a real day, such as 20240230, are rejected.
func DecodeDate(packed int, loc *time.Location) (time.Time, error) {
	if packed <= 0 {
		return time.Time{}, apperr.InvalidForecastData("date %d is not positive", packed)
	}

	day := packed % 100
	month := (packed/100)%100 - 1 // zero-based
	year := packed / 10000

	t := time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month())-1 != month || t.Day() != day {
		return time.Time{}, apperr.InvalidForecastData("date %d is not a calendar date", packed)
	}
	return t, nil
}

// Decode converts a response into display rows. Every date must fall within
// the forecast window that starts on now's calendar day, and every weather and
// wind code must be known.
func Decode(resp Response, now time.Time) ([]Day, error) {
	if len(resp.DataSeries) == 0 {
		return nil, apperr.InvalidForecastData("no forecast days")
	}

	days := make([]Day, 0, len(resp.DataSeries))
	for _, e := range resp.DataSeries {
		date, err := DecodeDate(e.Date, now.Location())
		if err != nil {
			return nil, err
		}
		if !validation.ValidateDate(date, now) {
			return nil, apperr.InvalidForecastData("date %s is outside the forecast window", date.Format(time.DateOnly))
		}

		weather, ok := weatherLabels[e.Weather]
		if !ok {
			return nil, apperr.InvalidForecastData("unknown weather code %q", e.Weather)
		}
		wind, ok := windLabels[e.Wind10mMx]
		if !ok {
			return nil, apperr.InvalidForecastData("unknown wind class %d", e.Wind10mMx)
		}

		days = append(days, Day{
			Date:      date.Format(dateLayout),
			Weather:   weather,
			TempRange: fmt.Sprintf("%d°C to %d°C", e.Temp2m.Min, e.Temp2m.Max),
			WindSpeed: wind,
		})
	}
	return days, nil
}
