package aluno

import (
	"errors"
	"fmt"
)

var (
	ErrAlunoNotFound      = errors.New("aluno not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidID          = fmt.Errorf("%w: malformed aluno id", ErrInvalidInput)
	ErrDuplicateMatricula = errors.New("matricula already exists")
	ErrDeleteNotConfirmed = errors.New("aluno still present after delete")
)

func invalidInput(cause error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, cause)
}
