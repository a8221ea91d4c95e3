package httpapi

// maxBodyBytes controls the maximum allowed request body size for POST
// endpoints. Covers the whole multipart payload on the contact endpoint.
var maxBodyBytes int64 = 10 << 20

// SetMaxBodyBytes allows configuring the maximum request body size.
func SetMaxBodyBytes(n int64) {
	if n <= 0 {
		maxBodyBytes = 10 << 20
		return
	}
	maxBodyBytes = n
}

// webhookTimeout controls the maximum duration a webhook request may process
// before timing out. Zero means no additional timeout beyond
// server/connection timeouts.
var webhookTimeout = int64(0) // seconds

// SetWebhookTimeoutSeconds sets the webhook processing timeout (0 disables).
func SetWebhookTimeoutSeconds(sec int64) {
	if sec < 0 {
		sec = 0
	}
	webhookTimeout = sec
}

// CORS configuration (opt-in). If disabled, no CORS middleware is added.
var (
	corsEnabled        bool
	corsAllowedOrigins []string
	corsAllowedMethods []string
	corsAllowedHeaders []string
)

// SetCORSOptions configures CORS behavior for the HTTP server.
func SetCORSOptions(enabled bool, origins, methods, headers []string) {
	corsEnabled = enabled
	corsAllowedOrigins = append([]string(nil), origins...)
	corsAllowedMethods = append([]string(nil), methods...)
	corsAllowedHeaders = append([]string(nil), headers...)
}
