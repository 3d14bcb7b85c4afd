package repository

import (
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
)

// ErrNotFound is returned when a lookup by id or key matches no document.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a unique index.
var ErrDuplicate = errors.New("duplicate key")

func notFoundOr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func duplicateOr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
