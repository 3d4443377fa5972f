package forecast

// Element ids and data attributes of the forecast markup.
const (
	ButtonID       = "get-forecast"
	PanelID        = "forecast-panel"
	ImageID        = "forecast-image"
	LoadingID      = "forecast-loading"
	DaysID         = "forecast-days"
	DialogID       = "error-dialog"
	DialogTextID   = "error-dialog-message"
	DialogCloseID  = "error-dialog-close"
	SendReportID   = "send-error-report"
	ReportStatusID = "error-report-status"

	DataURLAttr     = "data-data-url"
	ImageURLAttr    = "data-image-url"
	ImageLatAttr    = "data-image-lat"
	PlaceholderAttr = "data-placeholder"
)
