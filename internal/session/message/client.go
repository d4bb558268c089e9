package message

// Isso aqui são as mensagens que vão no sentido servidor -> cliente
import (
	"encoding/json"

	"gamehub/internal/game/resource"
	"gamehub/internal/network"
)

// SuccessClientPayload é o corpo de uma resposta de sucesso.
type SuccessClientPayload struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorClientPayload define a estrutura de uma resposta de erro.
type ErrorClientPayload struct {
	Error string `json:"error"`
}

// GiftClientPayload é a notificação empurrada para o destinatário de um presente.
type GiftClientPayload struct {
	FromPlayerID int64  `json:"fromPlayerId"`
	ResourceType string `json:"resourceType"`
	Amount       int64  `json:"resourceValue"`
	Message      string `json:"message"`
}

// CreateSuccessResponse monta a resposta padrão de sucesso para o remetente.
func CreateSuccessResponse(msg string, data any) network.Message {
	payload := SuccessClientPayload{
		Message: msg,
		Data:    data,
	}
	payloadBytes, _ := json.Marshal(payload)
	return network.Message{
		Type:    "Response",
		Payload: payloadBytes,
	}
}

// CreateErrorResponse usando a struct
func CreateErrorResponse(errorMsg string) network.Message {
	payload := ErrorClientPayload{
		Error: errorMsg,
	}
	payloadBytes, _ := json.Marshal(payload)
	return network.Message{
		Type:    "Error",
		Payload: payloadBytes,
	}
}

// CreateGiftNotification monta o push enviado ao destinatário de um presente.
func CreateGiftNotification(fromPlayerID int64, kind resource.Kind, amount int64) network.Message {
	payload := GiftClientPayload{
		FromPlayerID: fromPlayerID,
		ResourceType: string(kind),
		Amount:       amount,
		Message:      "You received a gift!",
	}
	payloadBytes, _ := json.Marshal(payload)
	return network.Message{
		Type:    "GiftReceived",
		Payload: payloadBytes,
	}
}
