package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		telegramUpdatesReceivedTotal,
		telegramFloodWaitTotal,
		telegramDownloadFailuresTotal,
	)
}

var (
	telegramUpdatesReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telegram_updates_received_total",
			Help: "Counts incoming updates by kind (command, photo, document, other).",
		},
		[]string{"kind"},
	)

	telegramFloodWaitTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_flood_wait_total",
			Help: "Total number of times Telegram asked the bot to back off (retry_after).",
		},
	)

	telegramDownloadFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "telegram_download_failures_total",
			Help: "Total number of failed Telegram file downloads.",
		},
	)
)

func IncTelegramUpdate(kind string) {
	telegramUpdatesReceivedTotal.WithLabelValues(norm(kind)).Inc()
}

func IncFloodWait() {
	telegramFloodWaitTotal.Inc()
}

func IncDownloadFailure() {
	telegramDownloadFailuresTotal.Inc()
}
