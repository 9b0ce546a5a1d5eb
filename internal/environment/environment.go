package environment

import (
	"blog-content-service/internal/database"
	"blog-content-service/internal/logging"
)

// Env bundles the content store and the logger.
// Controllers and the rpc service embed it to reach both.
type Env struct {
	database.Repository
	logging.Logger
}

// Environment constructs a new Env from the content store and logger.
// A nil argument is replaced by its no-op implementation.
func Environment(repository database.Repository, logger logging.Logger) *Env {
	if repository == nil {
		repository = &database.NullRepository{}
	}

	if logger == nil {
		logger = &logging.NullLogger{}
	}

	return &Env{repository, logger}
}

// Null returns an Env whose store and logger do nothing.
func Null() *Env {
	return Environment(nil, nil)
}
