package player

import (
	"gamehub/internal/game/resource"
	"gamehub/internal/network"
)

// Conn é a visão que o domínio tem de uma conexão de jogador: um canal de
// saída para respostas/notificações e um Close para o shutdown. O
// *network.Client satisfaz esta interface; os testes usam conexões falsas.
type Conn interface {
	Send() chan<- network.Message
	Close() error
}

// Player representa um jogador único, autenticado e conectado ao servidor.
// O registro vive apenas enquanto a conexão viver: um jogador nunca é
// reaproveitado entre desconexão e reconexão.
type Player struct {
	// ID é o identificador único do jogador, atribuído no primeiro login.
	ID int64

	// DeviceID é o identificador externo informado pelo cliente.
	DeviceID string

	// Ledger guarda os saldos de recursos do jogador.
	Ledger *resource.Ledger

	conn Conn
}

// New cria um jogador com todos os recursos zerados.
func New(id int64, deviceID string, conn Conn) *Player {
	return &Player{
		ID:       id,
		DeviceID: deviceID,
		Ledger:   resource.NewLedger(),
		conn:     conn,
	}
}

// Conn retorna a conexão associada ao jogador.
func (p *Player) Conn() Conn {
	return p.conn
}
