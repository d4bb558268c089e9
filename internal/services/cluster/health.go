package cluster

import (
	"encoding/json"
	"net/http"
	"sync"
)

// CheckFunc é uma função que realiza uma verificação de saúde.
// Retorna um erro se a verificação falhar.
type CheckFunc func() error

// HealthAggregator permite registrar múltiplas verificações de saúde e as
// expõe através de um único endpoint HTTP, o mesmo que o Consul consulta.
type HealthAggregator struct {
	mu     sync.RWMutex
	checks map[string]CheckFunc
}

// NewHealthAggregator cria um novo agregador de saúde.
func NewHealthAggregator() *HealthAggregator {
	return &HealthAggregator{
		checks: make(map[string]CheckFunc),
	}
}

// AddCheck registra uma nova função de verificação.
func (h *HealthAggregator) AddCheck(name string, check CheckFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.checks[name] = check
}

// Handler retorna um http.HandlerFunc que executa todas as verificações.
// Se todas passarem, retorna 200 OK. Se alguma falhar, retorna 503.
func (h *HealthAggregator) Handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.mu.RLock()
		defer h.mu.RUnlock()

		failures := make(map[string]string)
		for name, check := range h.checks {
			if err := check(); err != nil {
				failures[name] = err.Error()
			}
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")

		if len(failures) > 0 {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(failures)
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
	}
}
