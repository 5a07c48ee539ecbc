package service

import (
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type countProvider interface {
	Count() int
}

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the registrar engines.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec

	enrollmentsTotal   prometheus.Counter
	unenrollmentsTotal prometheus.Counter
	gradesTotal        prometheus.Counter
	gpaRecomputeFails  prometheus.Counter
	backupsTotal       prometheus.Counter
}

// NewMetricsService registers core Prometheus collectors. The student and
// course providers feed live population gauges; either may be nil.
func NewMetricsService(students, courses countProvider) *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	enrollmentsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "enrollments_total",
		Help: "Total successful enrollments",
	})
	unenrollmentsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "unenrollments_total",
		Help: "Total successful unenrollments",
	})
	gradesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "grades_recorded_total",
		Help: "Total grades recorded",
	})
	gpaRecomputeFails := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gpa_recompute_failures_total",
		Help: "Total best-effort GPA cache refreshes that failed",
	})
	backupsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "backups_total",
		Help: "Total completed data backups",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, enrollmentsTotal,
		unenrollmentsTotal, gradesTotal, gpaRecomputeFails, backupsTotal, goroutines)

	if students != nil {
		registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "students_total",
			Help: "Current number of student records",
		}, func() float64 { return float64(students.Count()) }))
	}
	if courses != nil {
		registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "courses_total",
			Help: "Current number of catalog courses",
		}, func() float64 { return float64(courses.Count()) }))
	}

	return &MetricsService{
		registry:           registry,
		handler:            promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:    requestDuration,
		requestTotal:       requestTotal,
		enrollmentsTotal:   enrollmentsTotal,
		unenrollmentsTotal: unenrollmentsTotal,
		gradesTotal:        gradesTotal,
		gpaRecomputeFails:  gpaRecomputeFails,
		backupsTotal:       backupsTotal,
	}
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "path": path, "status": httpStatusLabel(status)}
	m.requestDuration.With(labels).Observe(duration.Seconds())
	m.requestTotal.With(labels).Inc()
}

// EnrollmentRecorded counts a successful enroll.
func (m *MetricsService) EnrollmentRecorded() {
	if m != nil {
		m.enrollmentsTotal.Inc()
	}
}

// EnrollmentRemoved counts a successful unenroll.
func (m *MetricsService) EnrollmentRemoved() {
	if m != nil {
		m.unenrollmentsTotal.Inc()
	}
}

// GradeRecorded counts a recorded grade.
func (m *MetricsService) GradeRecorded() {
	if m != nil {
		m.gradesTotal.Inc()
	}
}

// GPARecomputeFailed counts a swallowed GPA cache failure.
func (m *MetricsService) GPARecomputeFailed() {
	if m != nil {
		m.gpaRecomputeFails.Inc()
	}
}

// BackupCompleted counts a finished backup.
func (m *MetricsService) BackupCompleted() {
	if m != nil {
		m.backupsTotal.Inc()
	}
}

func httpStatusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	}
	return "2xx"
}
