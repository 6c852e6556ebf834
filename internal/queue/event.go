// Package queue defines message payloads exchanged over the message broker.
package queue

// ReviewQueueName is the durable queue carrying review events.
const ReviewQueueName = "review.created"

// ReviewCreatedEvent is published after a review is stored.  It carries
// enough information for downstream consumers to log, notify or feed
// analytics without querying the primary database.
type ReviewCreatedEvent struct {
	FilmID     uint64 `json:"film_id"`
	FilmTitle  string `json:"film_title"`
	ReviewerID uint64 `json:"reviewer_id"`
	DirectorID uint64 `json:"director_id"`
	Rating     int    `json:"rating"`
	CreatedAt  string `json:"created_at"`
}
