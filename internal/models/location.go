package models

// Location is a named point in a user's list. Lat and Lon are kept as the
// decimal strings the user entered. Name is unique within one user's list.
type Location struct {
	Name string `json:"name"`
	Lat  string `json:"lat"`
	Lon  string `json:"lon"`
}
