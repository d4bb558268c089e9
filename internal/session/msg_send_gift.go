package session

import (
	"encoding/json"
	"fmt"
	"log"

	"gamehub/internal/game/player"
	"gamehub/internal/game/resource"
	"gamehub/internal/network"
	"gamehub/internal/session/message"
)

// TypeSendGift é a tag de roteamento da mensagem de presente.
const TypeSendGift = "SendGift"

// SendGiftMessage transfere uma quantidade de um recurso do jogador desta
// conexão para outro jogador vivo. O débito do remetente é atômico no
// ledger dele (verificação de saldo e subtração sob o mesmo lock), então
// dois presentes concorrentes do mesmo remetente nunca gastam o mesmo
// saldo duas vezes. O crédito do destinatário é uma seção crítica separada.
type SendGiftMessage struct {
	ToPlayerID int64
	Kind       resource.Kind
	Amount     int64
}

func (m *SendGiftMessage) Init(raw []byte) error {
	var req struct {
		FriendPlayerID *int64  `json:"friendPlayerId"`
		ResourceType   *string `json:"resourceType"`
		ResourceValue  *int64  `json:"resourceValue"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if req.FriendPlayerID == nil {
		return fmt.Errorf("%w: 'friendPlayerId' field is required", ErrValidation)
	}
	if req.ResourceType == nil {
		return fmt.Errorf("%w: 'resourceType' field is required", ErrValidation)
	}
	if req.ResourceValue == nil {
		return fmt.Errorf("%w: 'resourceValue' field is required", ErrValidation)
	}
	if *req.ResourceValue < 0 {
		return fmt.Errorf("%w: gift amount cannot be negative", ErrValidation)
	}

	kind, err := resource.ParseKind(*req.ResourceType)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	m.ToPlayerID = *req.FriendPlayerID
	m.Kind = kind
	m.Amount = *req.ResourceValue
	return nil
}

func (m *SendGiftMessage) Process(h *GameHandler, conn player.Conn) (network.Message, error) {
	// 1. Resolve o remetente pela conexão.
	sender, err := h.registry.LookupByConn(conn)
	if err != nil {
		return network.Message{}, err
	}

	// 2. Presentear a si mesmo não é permitido.
	if sender.ID == m.ToPlayerID {
		return network.Message{}, fmt.Errorf("%w: cannot send a gift to yourself", ErrValidation)
	}

	// 3. Resolve o destinatário ANTES de debitar: se ele não existe mais,
	// nenhum saldo sai do remetente.
	recipient, err := h.registry.LookupByID(m.ToPlayerID)
	if err != nil {
		return network.Message{}, err
	}

	// 4. Debita o remetente. O Apply verifica o saldo e subtrai sob o lock
	// do ledger, então o débito acontece no máximo uma vez e nunca deixa o
	// saldo negativo.
	if _, err := sender.Ledger.Apply(m.Kind, -m.Amount); err != nil {
		return network.Message{}, err
	}

	// 5. Credita o destinatário. Se o crédito falhar, o débito é estornado
	// para que o total de recursos se conserve.
	if _, err := recipient.Ledger.Apply(m.Kind, m.Amount); err != nil {
		if _, refundErr := sender.Ledger.Apply(m.Kind, m.Amount); refundErr != nil {
			log.Printf("[SendGift] Failed to refund player %d after credit failure: %v", sender.ID, refundErr)
		}
		return network.Message{}, err
	}

	// 6. Push best-effort para o destinatário: se o buffer de saída dele
	// estiver cheio, a notificação é descartada e não há retentativa. A
	// conexão dele também pode ter sido fechada entre o lookup e o push
	// (o canal de saída fecha no desregistro); o recover mantém essa falha
	// local, e a confirmação do remetente abaixo segue normalmente.
	func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("[SendGift] Notification to player %d dropped: %v", recipient.ID, r)
			}
		}()
		select {
		case recipient.Conn().Send() <- message.CreateGiftNotification(sender.ID, m.Kind, m.Amount):
		default:
			log.Printf("[SendGift] Notification to player %d dropped: send buffer full", recipient.ID)
		}
	}()

	h.events.PublishGift(sender.ID, recipient.ID, m.Kind, m.Amount)

	return message.CreateSuccessResponse(
		fmt.Sprintf("Gift was sent successfully to player %d", m.ToPlayerID),
		nil,
	), nil
}
