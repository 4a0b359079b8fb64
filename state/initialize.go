package state

import (
	"time"

	"github.com/google/uuid"

	"cellquest/content"
)

// newLocalEnv creates a new LocalEnv instance with default values
func newLocalEnv() *LocalEnv {
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &LocalEnv{
		start: time.Now(),
		Book:  content.Default(),
		RunID: id,
	}
}
