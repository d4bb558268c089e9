package session

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"gamehub/internal/game/player"
	"gamehub/internal/game/resource"
)

// Registry é a tabela central de jogadores vivos do processo.
// Ela é compartilhada por todas as goroutines de conexão, então todo acesso
// aos mapas passa pelo RWMutex. Os saldos NÃO são protegidos por este lock:
// cada jogador tem o lock do seu próprio ledger, para que jogadores sem
// relação não bloqueiem uns aos outros.
//
// A instância é construída explicitamente e injetada no GameHandler; não há
// estado global ambiente.
type Registry struct {
	mu     sync.RWMutex
	byConn map[player.Conn]*player.Player
	byID   map[int64]*player.Player

	// nextID gera IDs de jogador únicos pelo tempo de vida do processo.
	nextID atomic.Int64
}

// NewRegistry cria um registro vazio.
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[player.Conn]*player.Player),
		byID:   make(map[int64]*player.Player),
	}
}

// LookupByDevice procura um jogador vivo pelo device id.
// Retorna ErrInvalidArgument para device id vazio e ErrNotFound se nenhum
// jogador vivo usa esse device id.
//
// O registro NÃO garante unicidade de device id: quem faz login deve chamar
// LookupByDevice antes de Register e tolerar o ErrConflict da conexão. A
// varredura linear segue o modelo da tabela: para a escala de um hub, um
// índice secundário não se paga (e device ids duplicados o quebrariam).
func (r *Registry) LookupByDevice(deviceID string) (*player.Player, error) {
	if deviceID == "" {
		return nil, fmt.Errorf("%w: empty device id", ErrInvalidArgument)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.byID {
		if p.DeviceID == deviceID {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: device %q", ErrNotFound, deviceID)
}

// LookupByConn retorna o jogador vivo associado à conexão.
func (r *Registry) LookupByConn(conn player.Conn) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byConn[conn]
	if !ok {
		return nil, fmt.Errorf("%w: connection has no player", ErrNotFound)
	}
	return p, nil
}

// LookupByID retorna o jogador vivo com esse id.
func (r *Registry) LookupByID(id int64) (*player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: player %d", ErrNotFound, id)
	}
	return p, nil
}

// Register cria um novo jogador para o device id e o associa à conexão.
// Falha com ErrConflict se a conexão já estiver associada a outro jogador.
// A criação é linearizável em relação a Unregister: ou o jogador está na
// tabela, ou não está; nunca um estado intermediário.
func (r *Registry) Register(deviceID string, conn player.Conn) (*player.Player, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.byConn[conn]; ok {
		return nil, fmt.Errorf("%w: connection belongs to player %d", ErrConflict, existing.ID)
	}

	p := player.New(r.nextID.Add(1), deviceID, conn)
	r.byConn[conn] = p
	r.byID[p.ID] = p

	log.Printf("[Registry] Player %d registered (device=%s). Total players: %d", p.ID, deviceID, len(r.byID))
	return p, nil
}

// Unregister remove o jogador vivo da conexão, se houver.
// Remover uma conexão ausente é um no-op, não um erro.
func (r *Registry) Unregister(conn player.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byConn[conn]
	if !ok {
		return
	}

	delete(r.byConn, conn)
	delete(r.byID, p.ID)
	log.Printf("[Registry] Player %d removed. Total players: %d", p.ID, len(r.byID))
}

// UpdateBalance é a primitiva única de mutação de saldos: soma delta ao
// recurso do jogador da conexão e retorna o novo saldo. Toda mudança de
// saldo, inclusive as duas pernas de um presente, passa por aqui ou pelo
// Apply do ledger que ela delega.
func (r *Registry) UpdateBalance(conn player.Conn, kind resource.Kind, delta int64) (int64, error) {
	p, err := r.LookupByConn(conn)
	if err != nil {
		return 0, err
	}
	return p.Ledger.Apply(kind, delta)
}

// Len retorna o número de jogadores vivos.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// ShutdownAll fecha a conexão de todos os jogadores vivos e limpa a tabela.
// Usado uma única vez, no desligamento do processo.
func (r *Registry) ShutdownAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conn, p := range r.byConn {
		if err := conn.Close(); err != nil {
			log.Printf("[Registry] Error closing connection of player %d: %v", p.ID, err)
		}
	}

	r.byConn = make(map[player.Conn]*player.Player)
	r.byID = make(map[int64]*player.Player)
	log.Printf("[Registry] All players logged out.")
}
