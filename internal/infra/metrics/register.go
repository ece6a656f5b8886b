package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once       sync.Once
	collectors []prometheus.Collector
)

// register is called by init() in each metrics file to enqueue collectors.
func register(cs ...prometheus.Collector) {
	collectors = append(collectors, cs...)
}

// MustRegister registers the bot's collectors with the default Prometheus registry.
func MustRegister() {
	MustRegisterWith(prometheus.DefaultRegisterer)
}

// MustRegisterWith registers every enqueued collector with reg. Only the first
// call has an effect, so the process-wide collectors are never registered twice.
func MustRegisterWith(reg prometheus.Registerer) {
	once.Do(func() {
		reg.MustRegister(collectors...)
	})
}
