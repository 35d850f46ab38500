package aluno

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Known course codes. Stored values are not restricted to these.
const (
	CursoDSM = "DSM"
	CursoCDN = "CDN"
	CursoCO  = "CO"
)

type Endereco struct {
	CEP         string `json:"cep" validate:"required"`
	Logradouro  string `json:"logradouro" validate:"required"`
	Cidade      string `json:"cidade" validate:"required"`
	Bairro      string `json:"bairro" validate:"required"`
	Estado      string `json:"estado" validate:"required"`
	Numero      string `json:"numero" validate:"required"`
	Complemento string `json:"complemento,omitempty"`
}

type Aluno struct {
	bun.BaseModel `bun:"table:alunos,alias:a"`

	ID        uuid.UUID `bun:"id,pk,type:uuid,nullzero,default:gen_random_uuid()" json:"_id"`
	Matricula string    `bun:"matricula,unique,notnull" json:"matricula" validate:"required"`
	Nome      string    `bun:"nome,notnull" json:"nome" validate:"required"`
	Endereco  Endereco  `bun:"endereco,type:jsonb,notnull" json:"endereco"`
	Cursos    []string  `bun:"cursos,type:jsonb,notnull" json:"cursos" validate:"required,min=1,dive,required"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

// AlunoRequest is the body accepted by create and update. The three fields
// always travel together; partial updates are not supported.
type AlunoRequest struct {
	Nome     string    `json:"nome" validate:"required"`
	Endereco *Endereco `json:"endereco" validate:"required"`
	Cursos   []string  `json:"cursos" validate:"required,min=1,dive,required"`
}

var validate = validator.New()

func (r *AlunoRequest) normalize() {
	r.Nome = strings.TrimSpace(r.Nome)
	if r.Endereco != nil {
		r.Endereco.normalize()
	}
	for i := range r.Cursos {
		r.Cursos[i] = strings.TrimSpace(r.Cursos[i])
	}
}

func (e *Endereco) normalize() {
	e.CEP = strings.TrimSpace(e.CEP)
	e.Logradouro = strings.TrimSpace(e.Logradouro)
	e.Cidade = strings.TrimSpace(e.Cidade)
	e.Bairro = strings.TrimSpace(e.Bairro)
	e.Estado = strings.TrimSpace(e.Estado)
	e.Numero = strings.TrimSpace(e.Numero)
	e.Complemento = strings.TrimSpace(e.Complemento)
}

// Validate trims the request in place and checks the required fields.
func (r *AlunoRequest) Validate() error {
	r.normalize()
	if err := validate.Struct(r); err != nil {
		return invalidInput(err)
	}
	return nil
}

// Validate checks the fields the alunos table requires.
func (a *Aluno) Validate() error {
	if err := validate.Struct(a); err != nil {
		return invalidInput(err)
	}
	return nil
}

// apply copies the replaceable fields of r onto a.
func (r *AlunoRequest) apply(a *Aluno) {
	a.Nome = r.Nome
	a.Endereco = *r.Endereco
	a.Cursos = append([]string(nil), r.Cursos...)
}
