package aluno

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MatheusPrusch77/CRUD-RESTFUL-API/internal/metrics"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const (
	tableName = "alunos"

	// SQLSTATE unique_violation
	pgUniqueViolation = "23505"
)

type Repository interface {
	Create(ctx context.Context, aluno *Aluno) (*Aluno, error)
	GetAll(ctx context.Context) ([]Aluno, error)
	GetByID(ctx context.Context, id string) (*Aluno, error)
	GetByMatricula(ctx context.Context, matricula string) (*Aluno, error)
	Update(ctx context.Context, id string, aluno *Aluno) (*Aluno, error)
	DeleteByID(ctx context.Context, id string) (*Aluno, error)
	DeleteByMatricula(ctx context.Context, matricula string) (*Aluno, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return uid, nil
}

func (r *repository) record(ctx context.Context, operation string, start time.Time, err error) {
	if errors.Is(err, sql.ErrNoRows) {
		err = nil
	}
	r.metrics.DB().RecordQuery(ctx, operation, tableName, time.Since(start), err)
}

func (r *repository) Create(ctx context.Context, aluno *Aluno) (*Aluno, error) {
	if err := aluno.Validate(); err != nil {
		return nil, err
	}

	start := time.Now()
	_, err := r.db.NewInsert().Model(aluno).Returning("*").Exec(ctx)

	r.record(ctx, "insert", start, err)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateMatricula
		}
		return nil, fmt.Errorf("insert aluno: %w", err)
	}
	return aluno, nil
}

func (r *repository) GetAll(ctx context.Context) ([]Aluno, error) {
	start := time.Now()
	alunos := make([]Aluno, 0)
	err := r.db.NewSelect().
		Model(&alunos).
		OrderExpr("created_at DESC, id DESC").
		Scan(ctx)

	r.record(ctx, "select", start, err)

	if err != nil {
		return nil, fmt.Errorf("select alunos: %w", err)
	}
	return alunos, nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Aluno, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.getOne(ctx, "id = ?", uid)
}

func (r *repository) GetByMatricula(ctx context.Context, matricula string) (*Aluno, error) {
	if matricula == "" {
		return nil, invalidInput(errors.New("empty matricula"))
	}
	return r.getOne(ctx, "matricula = ?", matricula)
}

func (r *repository) getOne(ctx context.Context, where string, arg interface{}) (*Aluno, error) {
	start := time.Now()
	aluno := new(Aluno)
	err := r.db.NewSelect().Model(aluno).Where(where, arg).Scan(ctx)

	r.record(ctx, "select", start, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlunoNotFound
		}
		return nil, fmt.Errorf("select aluno: %w", err)
	}
	return aluno, nil
}

// Update replaces nome, endereco and cursos of the aluno with the given id.
// ID, matricula and created_at of the stored row are left untouched.
func (r *repository) Update(ctx context.Context, id string, aluno *Aluno) (*Aluno, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	patch := &AlunoRequest{Nome: aluno.Nome, Endereco: &aluno.Endereco, Cursos: aluno.Cursos}
	if err := validate.Struct(patch); err != nil {
		return nil, invalidInput(err)
	}

	start := time.Now()
	updated := &Aluno{
		ID:        uid,
		Nome:      aluno.Nome,
		Endereco:  aluno.Endereco,
		Cursos:    aluno.Cursos,
		UpdatedAt: start.UTC(),
	}
	err = r.db.NewUpdate().
		Model(updated).
		Column("nome", "endereco", "cursos", "updated_at").
		WherePK().
		Returning("*").
		Scan(ctx)

	r.record(ctx, "update", start, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlunoNotFound
		}
		return nil, fmt.Errorf("update aluno: %w", err)
	}
	return updated, nil
}

func (r *repository) DeleteByID(ctx context.Context, id string) (*Aluno, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.deleteOne(ctx, "id = ?", uid)
}

func (r *repository) DeleteByMatricula(ctx context.Context, matricula string) (*Aluno, error) {
	if matricula == "" {
		return nil, invalidInput(errors.New("empty matricula"))
	}
	return r.deleteOne(ctx, "matricula = ?", matricula)
}

// deleteOne removes the matching row and returns its last state.
func (r *repository) deleteOne(ctx context.Context, where string, arg interface{}) (*Aluno, error) {
	start := time.Now()
	deleted := new(Aluno)
	err := r.db.NewDelete().
		Model(deleted).
		Where(where, arg).
		Returning("*").
		Scan(ctx)

	r.record(ctx, "delete", start, err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAlunoNotFound
		}
		return nil, fmt.Errorf("delete aluno: %w", err)
	}
	return deleted, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == pgUniqueViolation
	}
	return false
}
