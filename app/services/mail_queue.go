package services

import (
	"context"
	"log"
	"sync"
	"time"
)

type Email struct {
	To       string
	Subject  string
	HTMLBody string
}

type MailEnqueuer interface {
	Enqueue(email Email) bool
}

// MailQueue hands emails to a single background sender so request handlers never wait on SMTP.
type MailQueue struct {
	sender      MailSender
	jobs        chan Email
	sendTimeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

func NewMailQueue(sender MailSender, size int) *MailQueue {
	if size < 1 {
		size = 1
	}
	return &MailQueue{
		sender:      sender,
		jobs:        make(chan Email, size),
		sendTimeout: 30 * time.Second,
		done:        make(chan struct{}),
	}
}

func (q *MailQueue) Start() {
	go q.run()
}

func (q *MailQueue) run() {
	defer close(q.done)
	for email := range q.jobs {
		ctx, cancel := context.WithTimeout(context.Background(), q.sendTimeout)
		if err := q.sender.SendHTMLEmail(ctx, email.To, email.Subject, email.HTMLBody); err != nil {
			log.Printf("MailQueue: delivery to %s failed: %v", email.To, err)
		}
		cancel()
	}
}

// Enqueue never blocks. It returns false when the queue is full or shut down.
func (q *MailQueue) Enqueue(email Email) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		log.Printf("MailQueue: dropped email to %s, queue is shut down", email.To)
		return false
	}

	select {
	case q.jobs <- email:
		return true
	default:
		log.Printf("MailQueue: dropped email to %s, queue is full", email.To)
		return false
	}
}

// Shutdown stops accepting mail and waits for the worker to drain what is queued.
func (q *MailQueue) Shutdown(ctx context.Context) error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()

	select {
	case <-q.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
