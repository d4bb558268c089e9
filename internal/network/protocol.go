package network

import (
	"encoding/json"
	"fmt"
)

// Message é o envelope padrão para toda a comunicação servidor -> cliente.
// Ele contém um tipo para roteamento e um payload com os dados.
// A tag json:"MsgType" segue a convenção do protocolo: todo frame carrega
// um campo MsgType identificando o seu tipo.
type Message struct {
	Type    string          `json:"MsgType"`           // Ex: "Response", "Error", "GiftReceived"
	Payload json.RawMessage `json:"payload,omitempty"` // Dados específicos, mantidos em JSON bruto para decodificação posterior.
}

// MaxMessageSize é o tamanho máximo de um frame aceito do cliente.
// Frames maiores são comportamento suspeito e derrubam a conexão.
const MaxMessageSize = 1024 * 1024 // 1 Megabyte

// envelope é usado apenas para extrair o campo de roteamento de um frame
// de entrada. Os frames do cliente são JSON "achatado": o MsgType fica
// lado a lado com os campos específicos de cada tipo de mensagem.
type envelope struct {
	Type *string `json:"MsgType"`
}

// ParseType extrai o MsgType de um frame bruto vindo do cliente.
// Retorna erro se o frame não for JSON válido ou se o campo estiver ausente.
// É a primeira etapa do dispatch: só depois de conhecer o tipo é que o
// payload completo é decodificado pela mensagem correspondente.
func ParseType(raw []byte) (string, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return "", fmt.Errorf("invalid frame: %w", err)
	}
	if env.Type == nil || *env.Type == "" {
		return "", fmt.Errorf("frame is missing the MsgType field")
	}
	return *env.Type, nil
}
