package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gamehub/internal/game/player"
	"gamehub/internal/network"
	"gamehub/internal/session/message"
)

// TypeLogin é a tag de roteamento da mensagem de login.
const TypeLogin = "Login"

// LoginMessage autentica a conexão com um device id.
// O login é idempotente: se já existe um jogador vivo para o device id, o
// id dele é reaproveitado; caso contrário um jogador novo é criado para
// esta conexão.
type LoginMessage struct {
	DeviceID string
}

func (m *LoginMessage) Init(raw []byte) error {
	var req struct {
		DeviceID *string `json:"deviceId"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.DeviceID == nil || *req.DeviceID == "" {
		return fmt.Errorf("%w: 'deviceId' field is required", ErrValidation)
	}

	m.DeviceID = *req.DeviceID
	return nil
}

func (m *LoginMessage) Process(h *GameHandler, conn player.Conn) (network.Message, error) {
	// Primeiro procura um jogador vivo para o device id; só registra se não
	// houver. O registro em si não serializa esse check-then-act, então uma
	// corrida entre dois logins do mesmo device pode criar duas identidades
	// ou ser rejeitada pelo conflito de conexão, que tratamos como erro.
	p, err := h.registry.LookupByDevice(m.DeviceID)
	if errors.Is(err, ErrNotFound) {
		p, err = h.registry.Register(m.DeviceID, conn)
	}
	if err != nil {
		return network.Message{}, err
	}

	h.events.PublishLogin(p.ID, p.DeviceID)

	return message.CreateSuccessResponse("Login successful.", strconv.FormatInt(p.ID, 10)), nil
}
