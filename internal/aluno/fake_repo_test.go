package aluno_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/aluno"
	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/events"

	"github.com/google/uuid"
)

// memRepository is an in-memory aluno.Repository for unit tests.
type memRepository struct {
	mu     sync.Mutex
	byID   map[uuid.UUID]aluno.Aluno
	clock  time.Time
	calls  map[string]int
	err    error // returned by every call when set
	sticky bool  // delete reports success but keeps the row
}

func newMemRepository() *memRepository {
	return &memRepository{
		byID:  make(map[uuid.UUID]aluno.Aluno),
		clock: time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC),
		calls: make(map[string]int),
	}
}

var _ aluno.Repository = (*memRepository)(nil)

func (m *memRepository) called(op string) error {
	m.calls[op]++
	return m.err
}

func (m *memRepository) Create(ctx context.Context, a *aluno.Aluno) (*aluno.Aluno, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.called("create"); err != nil {
		return nil, err
	}
	if err := a.Validate(); err != nil {
		return nil, err
	}
	for _, existing := range m.byID {
		if existing.Matricula == a.Matricula {
			return nil, aluno.ErrDuplicateMatricula
		}
	}

	m.clock = m.clock.Add(time.Second)
	a.ID = uuid.New()
	a.CreatedAt = m.clock
	a.UpdatedAt = m.clock
	m.byID[a.ID] = *a

	stored := *a
	return &stored, nil
}

func (m *memRepository) GetAll(ctx context.Context) ([]aluno.Aluno, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.called("getAll"); err != nil {
		return nil, err
	}

	alunos := make([]aluno.Aluno, 0, len(m.byID))
	for _, a := range m.byID {
		alunos = append(alunos, a)
	}
	sort.Slice(alunos, func(i, j int) bool { return alunos[i].CreatedAt.After(alunos[j].CreatedAt) })
	return alunos, nil
}

func (m *memRepository) parse(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, aluno.ErrInvalidID
	}
	return uid, nil
}

func (m *memRepository) GetByID(ctx context.Context, id string) (*aluno.Aluno, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.called("getByID"); err != nil {
		return nil, err
	}
	uid, err := m.parse(id)
	if err != nil {
		return nil, err
	}
	a, ok := m.byID[uid]
	if !ok {
		return nil, aluno.ErrAlunoNotFound
	}
	return &a, nil
}

func (m *memRepository) GetByMatricula(ctx context.Context, matricula string) (*aluno.Aluno, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.called("getByMatricula"); err != nil {
		return nil, err
	}
	for _, a := range m.byID {
		if a.Matricula == matricula {
			return &a, nil
		}
	}
	return nil, aluno.ErrAlunoNotFound
}

func (m *memRepository) Update(ctx context.Context, id string, patch *aluno.Aluno) (*aluno.Aluno, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.called("update"); err != nil {
		return nil, err
	}
	uid, err := m.parse(id)
	if err != nil {
		return nil, err
	}
	a, ok := m.byID[uid]
	if !ok {
		return nil, aluno.ErrAlunoNotFound
	}

	m.clock = m.clock.Add(time.Second)
	a.Nome = patch.Nome
	a.Endereco = patch.Endereco
	a.Cursos = patch.Cursos
	a.UpdatedAt = m.clock
	m.byID[uid] = a
	return &a, nil
}

func (m *memRepository) DeleteByID(ctx context.Context, id string) (*aluno.Aluno, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.called("deleteByID"); err != nil {
		return nil, err
	}
	uid, err := m.parse(id)
	if err != nil {
		return nil, err
	}
	a, ok := m.byID[uid]
	if !ok {
		return nil, aluno.ErrAlunoNotFound
	}
	if !m.sticky {
		delete(m.byID, uid)
	}
	return &a, nil
}

func (m *memRepository) DeleteByMatricula(ctx context.Context, matricula string) (*aluno.Aluno, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.called("deleteByMatricula"); err != nil {
		return nil, err
	}
	for uid, a := range m.byID {
		if a.Matricula == matricula {
			if !m.sticky {
				delete(m.byID, uid)
			}
			return &a, nil
		}
	}
	return nil, aluno.ErrAlunoNotFound
}

// fixedGenerator hands out the queued matriculas in order.
type fixedGenerator struct {
	mu     sync.Mutex
	values []string
}

func (g *fixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := g.values[0]
	if len(g.values) > 1 {
		g.values = g.values[1:]
	}
	return v
}

// recordingPublisher keeps every published event.
type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

var errStoreDown = errors.New("connection refused")

func validRequest(nome string) aluno.AlunoRequest {
	return aluno.AlunoRequest{
		Nome: nome,
		Endereco: &aluno.Endereco{
			CEP:        "01001000",
			Logradouro: "Praça da Sé",
			Cidade:     "São Paulo",
			Bairro:     "Sé",
			Estado:     "SP",
			Numero:     "10",
		},
		Cursos: []string{aluno.CursoDSM},
	}
}
