// Package queue defines message payloads exchanged over the message broker
// and the background worker that consumes them.
package queue

// FineTuneQueueName is the durable queue carrying fine-tune requests.
const FineTuneQueueName = "model.fine_tune"

// FineTuneRequestedEvent is published when an authenticated user asks for
// a fine-tuning run. The gateway's only contract with the worker is that
// the request was accepted for later execution; no result travels back.
type FineTuneRequestedEvent struct {
	Username    string `json:"username"`
	RequestedAt string `json:"requested_at"`
}
