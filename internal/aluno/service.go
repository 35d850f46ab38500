package aluno

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/events"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/metrics"
)

type Service interface {
	CreateAluno(ctx context.Context, req AlunoRequest) (*Aluno, error)
	GetAllAlunos(ctx context.Context) ([]Aluno, error)
	GetAlunoByID(ctx context.Context, id string) (*Aluno, error)
	UpdateAluno(ctx context.Context, id string, req AlunoRequest) (*Aluno, error)
	DeleteAluno(ctx context.Context, id string) (*Aluno, error)
	DeleteAlunoByMatricula(ctx context.Context, matricula string) (*Aluno, error)
}

type service struct {
	repo      Repository
	generator MatriculaGenerator
	publisher events.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

type Option func(*service)

func WithGenerator(g MatriculaGenerator) Option {
	return func(s *service) { s.generator = g }
}

func WithPublisher(p events.Publisher) Option {
	return func(s *service) { s.publisher = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *service) { s.metrics = m }
}

func NewService(repo Repository, logger *slog.Logger, opts ...Option) Service {
	s := &service{
		repo:      repo,
		generator: NewGenerator(),
		publisher: events.Nop{},
		logger:    logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateAluno assigns a fresh matricula and stores the aluno. A matricula
// collision is reported as ErrDuplicateMatricula; it is not retried.
func (s *service) CreateAluno(ctx context.Context, req AlunoRequest) (*Aluno, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	aluno := &Aluno{Matricula: s.generator.Generate()}
	req.apply(aluno)

	s.logger.InfoContext(ctx, "matricula generated", "matricula", aluno.Matricula)

	created, err := s.repo.Create(ctx, aluno)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAlunoCreated(ctx)
	s.publish(ctx, events.AlunoCreated, created)
	return created, nil
}

func (s *service) GetAllAlunos(ctx context.Context) ([]Aluno, error) {
	alunos, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAlunosListViewed(ctx)
	return alunos, nil
}

func (s *service) GetAlunoByID(ctx context.Context, id string) (*Aluno, error) {
	aluno, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAlunoViewed(ctx)
	return aluno, nil
}

// UpdateAluno validates before touching the store, then replaces nome,
// endereco and cursos of an existing aluno.
func (s *service) UpdateAluno(ctx context.Context, id string, req AlunoRequest) (*Aluno, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "updating aluno", "id", id, "matricula", existing.Matricula)

	patch := &Aluno{}
	req.apply(patch)

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAlunoUpdated(ctx)
	s.publish(ctx, events.AlunoUpdated, updated)
	return updated, nil
}

func (s *service) DeleteAluno(ctx context.Context, id string) (*Aluno, error) {
	return s.deleteVerified(ctx, "id", id, s.repo.GetByID, s.repo.DeleteByID)
}

func (s *service) DeleteAlunoByMatricula(ctx context.Context, matricula string) (*Aluno, error) {
	return s.deleteVerified(ctx, "matricula", matricula, s.repo.GetByMatricula, s.repo.DeleteByMatricula)
}

type keyedFunc func(ctx context.Context, key string) (*Aluno, error)

// deleteVerified looks the aluno up, deletes it and reads it back by the same
// key. The delete only counts once the read-back reports not found.
func (s *service) deleteVerified(ctx context.Context, keyName, key string, lookup, remove keyedFunc) (*Aluno, error) {
	existing, err := lookup(ctx, key)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "deleting aluno", keyName, key, "nome", existing.Nome)

	deleted, err := remove(ctx, key)
	if err != nil {
		return nil, err
	}

	if _, err := lookup(ctx, key); !errors.Is(err, ErrAlunoNotFound) {
		if err != nil {
			return nil, fmt.Errorf("verify delete: %w", err)
		}
		s.logger.ErrorContext(ctx, "aluno still present after delete", keyName, key)
		return nil, ErrDeleteNotConfirmed
	}

	s.metrics.RecordAlunoDeleted(ctx)
	s.publish(ctx, events.AlunoDeleted, deleted)
	return deleted, nil
}

// publish never fails the request; broker trouble is only logged.
func (s *service) publish(ctx context.Context, t events.Type, aluno *Aluno) {
	if err := s.publisher.Publish(ctx, events.New(t, aluno.Matricula, aluno)); err != nil {
		s.logger.WarnContext(ctx, "failed to publish aluno event", "type", t, "matricula", aluno.Matricula, "error", err)
	}
}
