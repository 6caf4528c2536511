package http

import (
	"net/http"

	"github.com/mauv0809/rift-cache/internal/config"
	"github.com/mauv0809/rift-cache/internal/http/handlers"
	"github.com/mauv0809/rift-cache/internal/metrics"
)

type Server struct {
	Profiles       handlers.ProfileService
	DB             handlers.Pinger
	Metrics        metrics.Metrics
	MetricsHandler http.Handler
	Cfg            config.Config
	Router         *http.ServeMux
	handler        http.Handler
}
