package services

import (
	"errors"
	"kaudio/internal/types"
)

func ignoreNotFound(err error) error {
	if errors.Is(err, types.ErrNotFound) {
		return nil
	}
	return err
}
