package clients

import (
	"context"
	"net/http"

	"github.com/tm-acme-shop/acme-shop-pos-service/internal/middleware"
)

// setHeaders applies the common outbound headers and propagates the
// request ID for tracing across collaborators.
func setHeaders(ctx context.Context, req *http.Request, apiKey string) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	if requestID := middleware.FromContext(ctx); requestID != "" {
		req.Header.Set(middleware.HeaderRequestID, requestID)
	}
}
