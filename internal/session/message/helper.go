package message

import (
	"fmt"

	"gamehub/internal/network"
)

// MessageSender define a interface para qualquer tipo que pode receber uma mensagem.
// Isso nos permite desacoplar o pacote `message` de implementações concretas
// como `*network.Client` ou as conexões falsas dos testes.
type MessageSender interface {
	Send() chan<- network.Message
}

// SendError envia apenas uma mensagem de erro para o cliente.
func SendError(sender MessageSender, format string, args ...interface{}) {
	errorMsg := fmt.Sprintf(format, args...)
	sender.Send() <- CreateErrorResponse(errorMsg)
}

// SendSuccess envia apenas uma mensagem de sucesso para o cliente.
func SendSuccess(sender MessageSender, message string, data any) {
	sender.Send() <- CreateSuccessResponse(message, data)
}
