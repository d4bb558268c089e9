package session

import (
	"log"

	"gamehub/internal/network"
	"gamehub/internal/services/events"
	"gamehub/internal/session/message"
)

// GameHandler implementa a interface network.EventHandler.
// Ele supervisiona o ciclo de vida das conexões e roteia cada frame recebido
// para a mensagem correspondente do catálogo. Todo o estado de jogadores
// vive no Registry injetado; o handler em si não guarda estado mutável.
type GameHandler struct {
	registry *Registry
	catalog  map[string]messageConstructor
	events   *events.Publisher
}

// NewGameHandler cria o handler com o registro e o publicador de eventos
// injetados. O publicador pode ser nulo (eventos desabilitados).
func NewGameHandler(registry *Registry, publisher *events.Publisher) *GameHandler {
	return &GameHandler{
		registry: registry,
		catalog:  newCatalog(),
		events:   publisher,
	}
}

// --- Implementação da Interface network.EventHandler ---

// OnConnect é chamado pela goroutine do network.Hub quando um cliente chega.
// A conexão ainda não tem jogador: isso só acontece no Login.
func (h *GameHandler) OnConnect(c *network.Client) {
	log.Printf("[GameHandler] New connection from %s", c.Conn().RemoteAddr())
	message.SendSuccess(c, "Connected to GameHub. Please log in.", nil)
}

// OnDisconnect desfaz a associação conexão -> jogador, se houver.
// O Unregister é idempotente, então uma conexão que nunca logou é um no-op.
func (h *GameHandler) OnDisconnect(c *network.Client) {
	log.Printf("[GameHandler] Connection from %s closed", c.Conn().RemoteAddr())
	h.registry.Unregister(c)
}

// OnMessage é chamado pelo readLoop de cada cliente, em ordem de chegada.
func (h *GameHandler) OnMessage(c *network.Client, raw []byte) {
	h.dispatch(c, raw)
}
