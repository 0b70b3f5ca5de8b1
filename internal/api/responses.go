// Package api holds the response envelopes shared across handlers, kept in
// one place so the swagger definitions stay consistent.
package api

type ErrorResponse struct {
	Error string `json:"error" example:"slot is fully booked"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Email queued successfully"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
