package httpapi

import (
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/orders/internal/metrics"
)

// statusRecorder запоминает код ответа для логов и метрик.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Instrument оборачивает обработчик логированием запросов и метриками
// длительности. m может быть nil.
func Instrument(next http.Handler, m *metrics.OrderMetrics, logger *log.Entry) http.Handler {
	if logger == nil {
		logger = log.WithField("component", "httpapi")
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		m.RequestStarted()
		next.ServeHTTP(recorder, r)
		m.RequestFinished()

		elapsed := time.Since(start)
		m.RecordRequest(r.Method, strconv.Itoa(recorder.status), elapsed)

		logger.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.status,
			"duration_ms": elapsed.Milliseconds(),
		}).Debug("request handled")
	})
}
