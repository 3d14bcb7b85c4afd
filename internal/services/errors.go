package services

import (
	"errors"

	"github.com/Dias221467/Recipe_Manager/internal/repository"
)

var (
	ErrNotFound           = repository.ErrNotFound
	ErrForbidden          = errors.New("access denied")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConflict           = errors.New("already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)
