package aluno

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// MatriculaGenerator produces enrollment identifiers for new alunos.
type MatriculaGenerator interface {
	Generate() string
}

// Generator builds matriculas as <year><4-digit random suffix>. Uniqueness is
// left to the repository's unique constraint.
type Generator struct {
	now  func() time.Time
	intN func(n int) int
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now, intN: rand.IntN}
}

// NewGeneratorWith is NewGenerator with a fixed clock and random source.
func NewGeneratorWith(now func() time.Time, intN func(n int) int) *Generator {
	return &Generator{now: now, intN: intN}
}

func (g *Generator) Generate() string {
	return fmt.Sprintf("%04d%04d", g.now().Year(), g.intN(9999))
}
