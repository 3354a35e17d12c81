package restapi

import (
	"net/http"
	"time"

	"raptor.onebusaway.org/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second, app.Config.RateLimitExemptKeys...),
	}
}

// Handler returns the complete HTTP handler: routes wrapped in the request id,
// logging, security header, compression and rate limit middleware.
func (api *RestAPI) Handler() http.Handler {
	var handler http.Handler = api.routes()
	handler = api.rateLimiter.Handler(handler)
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	handler = NewRequestLoggingMiddleware(api.Logger)(handler)
	return RequestIDMiddleware(handler)
}

// Shutdown stops the background work of the middleware.
func (api *RestAPI) Shutdown() {
	api.rateLimiter.Stop()
}
