package response

import (
	"net/http"

	"github.com/cmlabs-hris/hris-portal-go/internal/router"
)

// NoticeWriter collects notices and the next location for the response envelope.
type NoticeWriter struct {
	http.ResponseWriter
	notices router.Notices
	next    router.Location
}

func NewNoticeWriter(w http.ResponseWriter) *NoticeWriter {
	return &NoticeWriter{ResponseWriter: w}
}

func (w *NoticeWriter) Notify(message string, severity router.Severity) {
	w.notices.Notify(message, severity)
}

func (w *NoticeWriter) SetNext(loc router.Location) {
	w.next = loc
}

func (w *NoticeWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}

// Notifier returns the notice sink behind w, or one that drops everything.
func Notifier(w http.ResponseWriter) router.Notifier {
	if nw, ok := w.(*NoticeWriter); ok {
		return nw
	}
	return router.Discard
}

// SetNext records where the client should navigate after this response.
func SetNext(w http.ResponseWriter, loc router.Location) {
	if nw, ok := w.(*NoticeWriter); ok {
		nw.SetNext(loc)
	}
}
