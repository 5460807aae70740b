package router

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityDanger  Severity = "danger"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

const (
	MessageAdminsOnly = "Access denied. Admins only."
	MessageUseAdmin   = "Admins manage requests from the admin requests view."
)

type Notice struct {
	Message  string   `json:"message"`
	Severity Severity `json:"severity"`
}

// Notifier receives fire-and-forget user feedback.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Notices collects notices in the order they were raised.
type Notices []Notice

func (n *Notices) Notify(message string, severity Severity) {
	*n = append(*n, Notice{Message: message, Severity: severity})
}

// Discard drops every notice.
var Discard Notifier = discard{}

type discard struct{}

func (discard) Notify(string, Severity) {}
