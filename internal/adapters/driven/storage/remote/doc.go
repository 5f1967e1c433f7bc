// Package remote provides a driven.BuildStore backed by the hosted builds API.
//
// Requests carry a bearer token through golang.org/x/oauth2 and are throttled
// client-side with golang.org/x/time/rate. A 429 response pauses the limiter
// for the server's Retry-After period.
//
// # Endpoints
//
//	POST   /builds        create, returns {"id": ...}
//	PUT    /builds/{id}   update, returns {"updatedAt": ...}
//	GET    /builds/{id}   payload
//	GET    /builds        summaries
//	DELETE /builds/{id}
package remote
