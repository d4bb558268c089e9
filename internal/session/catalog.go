package session

import (
	"fmt"
	"log"

	"gamehub/internal/game/player"
	"gamehub/internal/network"
	"gamehub/internal/session/message"
)

// InboundMessage é o contrato de toda mensagem vinda do cliente.
// O ciclo de vida é sempre o mesmo: o catálogo instancia a mensagem vazia,
// Init preenche e valida os campos a partir do frame bruto (sem tocar em
// nenhum estado compartilhado), e Process aplica a operação contra o
// registro e devolve a resposta única para o remetente.
type InboundMessage interface {
	Init(raw []byte) error
	Process(h *GameHandler, conn player.Conn) (network.Message, error)
}

// messageConstructor cria uma instância vazia de um tipo de mensagem.
type messageConstructor func() InboundMessage

// newCatalog monta o mapeamento estático de MsgType para construtor.
// O catálogo é construído uma única vez, na criação do GameHandler; um novo
// tipo de mensagem entra aqui explicitamente, nunca por reflexão.
func newCatalog() map[string]messageConstructor {
	return map[string]messageConstructor{
		TypeLogin:           func() InboundMessage { return &LoginMessage{} },
		TypeUpdateResources: func() InboundMessage { return &UpdateResourcesMessage{} },
		TypeSendGift:        func() InboundMessage { return &SendGiftMessage{} },
	}
}

// dispatch decodifica o frame, roteia pelo catálogo e envia exatamente uma
// resposta para a conexão de origem. Nenhuma falha aqui é fatal para a
// conexão: frame malformado, tipo desconhecido e erros de validação ou de
// negócio viram uma resposta de erro e o loop de leitura segue vivo.
func (h *GameHandler) dispatch(conn player.Conn, raw []byte) {
	// Uma conexão pode ser desregistrada enquanto um handler ainda escreve
	// nela (o canal de saída fecha). O recover transforma esse panic em log
	// e mantém as outras conexões intactas.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Dispatch] Recovered from panic while handling message: %v", r)
		}
	}()

	// 1. Extrai o MsgType do frame bruto.
	msgType, err := network.ParseType(raw)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrMalformedMessage, err)
		log.Printf("[Dispatch] %v", err)
		message.SendError(conn, "%v", err)
		return
	}

	// 2. Procura o construtor no catálogo.
	ctor, found := h.catalog[msgType]
	if !found {
		err := fmt.Errorf("%w: %q", ErrUnknownMessageKind, msgType)
		log.Printf("[Dispatch] %v", err)
		message.SendError(conn, "%v", err)
		return
	}

	// 3. Instancia e valida. Init nunca muta estado compartilhado, então
	// uma falha aqui é sempre segura de responder e descartar.
	msg := ctor()
	if err := msg.Init(raw); err != nil {
		log.Printf("[Dispatch] Validation failed for %q: %v", msgType, err)
		message.SendError(conn, "%v", err)
		return
	}

	// 4. Processa e responde. O contrato é fixo: toda mensagem validada
	// produz exatamente uma resposta na conexão de origem.
	reply, err := msg.Process(h, conn)
	if err != nil {
		log.Printf("[Dispatch] %q failed: %v", msgType, err)
		message.SendError(conn, "%v", err)
		return
	}

	conn.Send() <- reply
}
