package session

import (
	"errors"

	"gamehub/internal/game/resource"
)

// Taxonomia de erros do hub. Falhas por mensagem (malformada até saldo
// insuficiente) são capturadas no dispatch, logadas e respondidas ao
// remetente; nunca derrubam o loop de leitura da conexão.
var (
	// ErrInvalidArgument indica um argumento vazio ou fora do domínio.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict indica uma conexão já associada a outro jogador.
	ErrConflict = errors.New("connection already bound to a player")

	// ErrNotFound indica um jogador/conexão referenciado que não existe.
	ErrNotFound = errors.New("player not found")

	// ErrMalformedMessage indica um frame que não pôde ser decodificado.
	ErrMalformedMessage = errors.New("malformed message")

	// ErrUnknownMessageKind indica um MsgType fora do catálogo.
	ErrUnknownMessageKind = errors.New("unknown message kind")

	// ErrValidation indica um campo ausente, negativo ou fora do domínio.
	ErrValidation = errors.New("validation failed")

	// ErrInsufficientBalance é a regra de negócio de saldo, compartilhada
	// com o ledger: um débito nunca deixa um saldo negativo.
	ErrInsufficientBalance = resource.ErrInsufficientBalance
)
