package dto

type AdvisoryLevel string

const (
	AdvisoryInfo    AdvisoryLevel = "info"
	AdvisorySuccess AdvisoryLevel = "success"
	AdvisoryWarning AdvisoryLevel = "warning"
	AdvisoryError   AdvisoryLevel = "error"
)

// Advisory is a transient, non-blocking notice for the user.
type Advisory struct {
	Level   AdvisoryLevel `json:"level"`
	Message string        `json:"message"`
}

func NewAdvisory(level AdvisoryLevel, message string) *Advisory {
	return &Advisory{Level: level, Message: message}
}
