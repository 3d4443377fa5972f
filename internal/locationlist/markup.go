package locationlist

// Element ids, classes and attributes of the location list markup rendered by
// the home page template.
const (
	FormID        = "location-form"
	NameInputID   = "location-name"
	LatInputID    = "location-lat"
	LonInputID    = "location-lon"
	ListID        = "location-list"
	PlaceholderID = "no-locations"
	ClearButtonID = "clear-locations"

	DetailsID     = "location-details"
	DetailsNameID = "details-name"
	DetailsLatID  = "details-lat"
	DetailsLonID  = "details-lon"

	RowClass          = "location-row"
	NameButtonClass   = "location-name"
	DeleteButtonClass = "location-delete"

	SelectedClass      = "selected"
	RoundedTopClass    = "rounded-top"
	RoundedBottomClass = "rounded-bottom"
	NoTopBorderClass   = "no-top-border"
	InvalidClass       = "invalid"

	NameAttr = "data-name"
)

// Form input names.
const (
	NameInput = "name"
	LatInput  = "lat"
	LonInput  = "lon"
)
