package queue

import (
	"github.com/hibiken/asynq"
)

// HandlersRegistry collects task handlers before the worker starts.
// The fee recalculation and subscription sweep workers register here.
type HandlersRegistry struct {
	mux *asynq.ServeMux
}

func NewHandlersRegistry() *HandlersRegistry {
	return &HandlersRegistry{
		mux: asynq.NewServeMux(),
	}
}

func (r *HandlersRegistry) Register(taskType string, handler asynq.Handler) {
	r.mux.Handle(taskType, handler)
}

func (r *HandlersRegistry) Mux() *asynq.ServeMux {
	return r.mux
}
