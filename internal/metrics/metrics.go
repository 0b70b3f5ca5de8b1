package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plunge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "plunge_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plunge_bookings_total",
			Help: "Total number of bookings",
		},
		[]string{"status"},
	)

	BookingCancellationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plunge_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	SlotsResolvedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plunge_availability_resolutions_total",
			Help: "Total number of availability resolutions",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plunge_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "plunge_email_queue_length",
			Help: "Current length of email queue",
		},
	)

	OTPCodesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plunge_otp_codes_total",
			Help: "Total number of OTP codes by outcome",
		},
		[]string{"outcome"},
	)

	CouponsRedeemedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plunge_coupons_redeemed_total",
			Help: "Total number of coupon redemptions",
		},
	)

	PaymentsConfirmedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "plunge_payments_confirmed_total",
			Help: "Total number of confirmed payments",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(status string) {
	BookingsTotal.WithLabelValues(status).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordResolution() {
	SlotsResolvedTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}

func RecordOTP(outcome string) {
	OTPCodesTotal.WithLabelValues(outcome).Inc()
}

func RecordCouponRedemption() {
	CouponsRedeemedTotal.Inc()
}

func RecordPaymentConfirmed() {
	PaymentsConfirmedTotal.Inc()
}
