// Package models contains data types and constants for the RAG query API.
package models

// Endpoints for the RAG backend
const (
	// EndpointQuery is the default query endpoint of a locally running backend
	EndpointQuery = "http://127.0.0.1:8000/query"
)

// Header names
const (
	HeaderRequestID = "X-Request-ID"
)

// FallbackMessage is shown in place of an answer whenever a query fails,
// whatever the cause.
const FallbackMessage = "Sorry, I'm having trouble connecting to the server. Please try again later."

// DefaultHeaders returns the default headers for query requests
func DefaultHeaders() map[string]string {
	return map[string]string{
		"Content-Type": "application/json",
		"Accept":       "application/json",
		"User-Agent":   "ragchat/" + Version,
	}
}

// Version is the client version reported in the User-Agent header (set at build time)
var Version = "0.1.0"
