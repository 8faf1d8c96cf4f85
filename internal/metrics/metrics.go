// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideaportal_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ideaportal_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	ideasCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideaportal_ideas_created_total",
		Help: "Ideas submitted, by department",
	}, []string{"department"})

	ideasDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ideaportal_ideas_deleted_total",
		Help: "Ideas removed together with their dependent rows",
	})

	statusChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideaportal_idea_status_changes_total",
		Help: "Idea status transitions, by new status",
	}, []string{"status"})

	likes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideaportal_likes_total",
		Help: "Like attempts, by result",
	}, []string{"result"})

	comments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideaportal_comments_total",
		Help: "Comments created, by kind (comment or reply)",
	}, []string{"kind"})

	notificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideaportal_notifications_created_total",
		Help: "Notifications appended, by type",
	}, []string{"type"})

	notificationsPurged = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ideaportal_notifications_purged_total",
		Help: "Read notifications removed by the retention job",
	})

	notesReplaced = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ideaportal_notes_replaced_size",
		Help:    "Number of notes written per replace",
		Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
	})

	analyticsCache = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ideaportal_analytics_cache_total",
		Help: "Analytics cache lookups, by result (hit, miss, error)",
	}, []string{"result"})
)

// ObserveHTTPRequest records an HTTP request metric.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// IdeaCreated counts a new idea.
func IdeaCreated(department string) { ideasCreated.WithLabelValues(department).Inc() }

// IdeaDeleted counts a cascading delete.
func IdeaDeleted() { ideasDeleted.Inc() }

// StatusChanged counts a status transition.
func StatusChanged(status string) { statusChanges.WithLabelValues(status).Inc() }

// Liked counts a like attempt; result is "ok" or "duplicate".
func Liked(result string) { likes.WithLabelValues(result).Inc() }

// Commented counts a new comment; kind is "comment" or "reply".
func Commented(kind string) { comments.WithLabelValues(kind).Inc() }

// NotificationCreated counts an appended notification.
func NotificationCreated(typ string) { notificationsCreated.WithLabelValues(typ).Inc() }

// NotificationsPurged adds n purged notifications.
func NotificationsPurged(n int64) { notificationsPurged.Add(float64(n)) }

// NotesReplaced records the size of a replaced note set.
func NotesReplaced(n int) { notesReplaced.Observe(float64(n)) }

// AnalyticsCache counts a cache lookup result.
func AnalyticsCache(result string) { analyticsCache.WithLabelValues(result).Inc() }
