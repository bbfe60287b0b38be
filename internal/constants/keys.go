package constants

const (
	// Session
	SessionName = "inkblog_session"

	// Flash kinds
	FlashSuccess = "success"
	FlashError   = "error"
)
