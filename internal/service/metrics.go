package service

import (
	"github.com/prometheus/client_golang/prometheus"

	"hotel-booking-api/internal/domain"
)

var (
	bookingsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "bookings_created_total", Help: "Count of successfully created bookings"},
	)
	bookingTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "booking_status_transitions_total", Help: "Count of booking status transitions"},
		[]string{"from", "to"},
	)
	bookingRejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "booking_rejections_total", Help: "Count of booking operations rejected by domain rules"},
		[]string{"op", "reason"},
	)
)

func init() {
	prometheus.MustRegister(bookingsCreatedTotal, bookingTransitionsTotal, bookingRejectionsTotal)
}

// observeRejection 只统计业务拒绝，internal 不计
func observeRejection(op string, err error) {
	if err == nil {
		return
	}
	k := domain.KindOf(err)
	if k == domain.KindInternal {
		return
	}
	bookingRejectionsTotal.WithLabelValues(op, k.String()).Inc()
}
