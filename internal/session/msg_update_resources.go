package session

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gamehub/internal/game/player"
	"gamehub/internal/game/resource"
	"gamehub/internal/network"
	"gamehub/internal/session/message"
)

// TypeUpdateResources é a tag de roteamento da mensagem de atualização de recursos.
const TypeUpdateResources = "UpdateResources"

// UpdateResourcesMessage soma um delta (positivo ou negativo) ao saldo de um
// recurso do jogador desta conexão. Um delta que deixaria o saldo negativo
// é rejeitado pelo ledger, a mesma regra que protege o débito dos presentes.
type UpdateResourcesMessage struct {
	Kind  resource.Kind
	Delta int64
}

func (m *UpdateResourcesMessage) Init(raw []byte) error {
	var req struct {
		ResourceType  *string `json:"resourceType"`
		ResourceValue *int64  `json:"resourceValue"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.ResourceType == nil {
		return fmt.Errorf("%w: 'resourceType' field is required", ErrValidation)
	}
	if req.ResourceValue == nil {
		return fmt.Errorf("%w: 'resourceValue' field is required", ErrValidation)
	}

	kind, err := resource.ParseKind(*req.ResourceType)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	m.Kind = kind
	m.Delta = *req.ResourceValue
	return nil
}

func (m *UpdateResourcesMessage) Process(h *GameHandler, conn player.Conn) (network.Message, error) {
	p, err := h.registry.LookupByConn(conn)
	if err != nil {
		return network.Message{}, err
	}

	newBalance, err := h.registry.UpdateBalance(conn, m.Kind, m.Delta)
	if err != nil {
		return network.Message{}, err
	}

	h.events.PublishResourceUpdate(p.ID, m.Kind, m.Delta, newBalance)

	return message.CreateSuccessResponse(
		fmt.Sprintf("Resource %s updated.", m.Kind),
		strconv.FormatInt(newBalance, 10),
	), nil
}
