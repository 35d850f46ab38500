// Package events defines the notifications emitted when an aluno changes.
package events

import (
	"context"
	"time"
)

type Type string

const (
	AlunoCreated Type = "aluno.created"
	AlunoUpdated Type = "aluno.updated"
	AlunoDeleted Type = "aluno.deleted"
)

// Event is the JSON payload sent to the broker. Aluno holds the record
// snapshot after the change (before it, for deletions).
type Event struct {
	Type       Type        `json:"type"`
	Matricula  string      `json:"matricula"`
	Aluno      interface{} `json:"aluno"`
	OccurredAt time.Time   `json:"occurredAt"`
}

func New(t Type, matricula string, aluno interface{}) Event {
	return Event{
		Type:       t,
		Matricula:  matricula,
		Aluno:      aluno,
		OccurredAt: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

// Nop discards every event. Used when no broker is configured or reachable.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }
func (Nop) Close() error                         { return nil }
