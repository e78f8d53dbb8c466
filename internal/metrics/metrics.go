package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	dispatchAcceptedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_dispatch_accepted_total",
		Help: "Total number of dispatch requests admitted to the queue",
	})
	dispatchRejectedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_dispatch_rejected_total",
		Help: "Total number of dispatch requests rejected before enqueue",
	})
	enqueueTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_enqueue_total",
		Help: "Total number of queue publish attempts by result",
	}, []string{"result"})
	channelAttemptsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "notify_channel_attempts_total",
		Help: "Total number of channel delivery attempts by channel and outcome",
	}, []string{"channel", "outcome"})
	templateMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_template_misses_total",
		Help: "Total number of dispatch messages dropped because the template could not be resolved",
	})
	auditWriteFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "notify_audit_write_failures_total",
		Help: "Total number of failed audit store appends",
	})
)

// Register registers Prometheus collectors with the default registry. Call once at startup.
func Register() {
	prometheus.MustRegister(
		dispatchAcceptedTotal,
		dispatchRejectedTotal,
		enqueueTotal,
		channelAttemptsTotal,
		templateMissesTotal,
		auditWriteFailuresTotal,
	)
}

// IncDispatchAccepted increments the admitted requests counter.
func IncDispatchAccepted() { dispatchAcceptedTotal.Inc() }

// IncDispatchRejected increments the rejected requests counter.
func IncDispatchRejected() { dispatchRejectedTotal.Inc() }

// IncEnqueue increments the publish counter for the given result.
func IncEnqueue(ok bool) {
	if ok {
		enqueueTotal.WithLabelValues("success").Inc()
	} else {
		enqueueTotal.WithLabelValues("failure").Inc()
	}
}

// IncChannelAttempt increments the delivery attempt counter.
func IncChannelAttempt(channel string, ok bool) {
	outcome := "failure"
	if ok {
		outcome = "success"
	}
	channelAttemptsTotal.WithLabelValues(channel, outcome).Inc()
}

// IncTemplateMiss increments the dropped-message counter.
func IncTemplateMiss() { templateMissesTotal.Inc() }

// IncAuditWriteFailure increments the failed audit append counter.
func IncAuditWriteFailure() { auditWriteFailuresTotal.Inc() }
