package resource

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnknownKind indica um tipo de recurso fora da enumeração.
	ErrUnknownKind = errors.New("unknown resource kind")

	// ErrInsufficientBalance indica uma operação que deixaria um saldo negativo.
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// Ledger é a tabela de saldos de um único jogador.
// Todo tipo de recurso está presente desde a criação, com valor inicial 0,
// e nunca é removido. A única forma de alterar um saldo é através de Apply,
// então qualquer valor observável é o resultado de uma sequência de deltas
// aplicados sobre o 0 inicial.
type Ledger struct {
	mu       sync.Mutex
	balances map[Kind]int64
}

// NewLedger cria um ledger com todos os tipos de recurso zerados.
func NewLedger() *Ledger {
	balances := make(map[Kind]int64, len(kinds))
	for _, k := range kinds {
		balances[k] = 0
	}
	return &Ledger{balances: balances}
}

// Apply soma delta ao saldo do recurso e retorna o novo valor.
// A verificação do saldo resultante e a escrita acontecem sob o mesmo lock:
// duas chamadas concorrentes sobre o mesmo ledger nunca observam um estado
// intermediário, e um débito só é efetivado se o saldo comportar o valor
// inteiro. Saldos nunca ficam negativos.
func (l *Ledger) Apply(kind Kind, delta int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	current, ok := l.balances[kind]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	next := current + delta
	if next < 0 {
		return 0, fmt.Errorf("%w: balance %d, delta %d", ErrInsufficientBalance, current, delta)
	}

	l.balances[kind] = next
	return next, nil
}

// Balance retorna o saldo atual de um recurso. Tipos desconhecidos retornam 0.
func (l *Ledger) Balance(kind Kind) int64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[kind]
}

// Snapshot retorna uma cópia de todos os saldos, útil para logs e eventos.
func (l *Ledger) Snapshot() map[Kind]int64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make(map[Kind]int64, len(l.balances))
	for k, v := range l.balances {
		out[k] = v
	}
	return out
}
