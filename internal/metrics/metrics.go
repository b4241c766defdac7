// Package metrics exposes the service's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// CheckIns counts admission decisions by outcome. Outcome labels are the
// rejection kinds plus PRESENT and LATE for accepted check-ins.
var CheckIns = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "facegate",
	Name:      "checkins_total",
	Help:      "Check-in admission decisions by outcome.",
}, []string{"outcome"})

// Enrollments counts face profile enrollments, split by first-time vs
// re-enrollment.
var Enrollments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "facegate",
	Name:      "face_enrollments_total",
	Help:      "Face profile enrollments.",
}, []string{"kind"})

// NotificationsSent counts worker deliveries.
var NotificationsSent = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "facegate",
	Name:      "notifications_sent_total",
	Help:      "Check-in notifications dispatched by the worker.",
})
