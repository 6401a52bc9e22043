package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"oqunet/internal/pkg"
)

const (
	EventBookBorrowed = "book.borrowed"
	EventBookReturned = "book.returned"
	EventBookAssigned = "book.assigned"
	EventBookReleased = "book.released"
)

// LoanEvent is the payload published for every holder transition.
type LoanEvent struct {
	Type   string    `json:"type"`
	BookID uint64    `json:"book_id"`
	UserID uint64    `json:"user_id"`
	At     time.Time `json:"at"`
}

// emitLoanEvent publishes best-effort: a broker outage must never fail
// the transition that already committed.
func emitLoanEvent(p *pkg.KafkaProducer, eventType string, bookID, userID uint64) {
	if p == nil {
		return
	}
	payload, err := json.Marshal(LoanEvent{
		Type:   eventType,
		BookID: bookID,
		UserID: userID,
		At:     time.Now(),
	})
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := p.Send(ctx, pkg.BookKey(bookID), payload); err != nil {
		log.Printf("loan event %s for book %d not published: %v", eventType, bookID, err)
	}
}
