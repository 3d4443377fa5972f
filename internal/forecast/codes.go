package forecast

// weatherLabels maps 7Timer civil-light weather codes to display text.
var weatherLabels = map[string]string{
	"clear":     "Clear",
	"pcloudy":   "Partly cloudy",
	"mcloudy":   "Cloudy",
	"cloudy":    "Very cloudy",
	"humid":     "Foggy",
	"lightrain": "Light rain",
	"oshower":   "Occasional showers",
	"ishower":   "Isolated showers",
	"lightsnow": "Light snow",
	"rain":      "Rain",
	"snow":      "Snow",
	"rainsnow":  "Rain and snow",
	"ts":        "Thunderstorm possible",
	"tsrain":    "Thunderstorm",
}

// windLabels maps the 7Timer 10m maximum wind class (1-8) to display text.
// Calm air is shown as an empty cell.
var windLabels = map[int]string{
	1: "",
	2: "Light (0.3-3.4 m/s)",
	3: "Moderate (3.4-8.0 m/s)",
	4: "Fresh (8.0-10.8 m/s)",
	5: "Strong (10.8-17.2 m/s)",
	6: "Gale (17.2-24.5 m/s)",
	7: "Storm (24.5-32.6 m/s)",
	8: "Hurricane (over 32.6 m/s)",
}
