// Package sessions tracks quick-reply sessions: a short-lived binding between
// an actor and a report, so their next message lands as an answer without
// retyping the id. Purely a presentation concern; the engine never sees it.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const TTL = 60 * time.Second

type session struct {
	id       uuid.UUID
	reportID int64
	expires  time.Time
}

type QuickReply struct {
	mu      sync.Mutex
	byActor map[string]session
	now     func() time.Time
}

func New() *QuickReply {
	return &QuickReply{
		byActor: make(map[string]session),
		now:     time.Now,
	}
}

// Start opens (or replaces) the actor's session and returns its id.
func (q *QuickReply) Start(actor string, reportID int64) uuid.UUID {
	s := session{
		id:       uuid.New(),
		reportID: reportID,
		expires:  q.now().Add(TTL),
	}
	q.mu.Lock()
	q.byActor[actor] = s
	q.mu.Unlock()
	return s.id
}

// Stop ends the actor's session if one exists.
func (q *QuickReply) Stop(actor string) {
	q.mu.Lock()
	delete(q.byActor, actor)
	q.mu.Unlock()
}

// Target returns the report id bound to the actor, if a live session exists.
// Expired sessions are removed on access.
func (q *QuickReply) Target(actor string) (int64, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	s, ok := q.byActor[actor]
	if !ok {
		return 0, false
	}
	if q.now().After(s.expires) {
		delete(q.byActor, actor)
		return 0, false
	}
	return s.reportID, true
}
