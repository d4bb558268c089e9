package events

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"gamehub/internal/game/resource"
)

// Assuntos publicados pelo hub. Consumidores (analytics, auditoria) assinam
// "gamehub.events.>" para receber tudo.
const (
	SubjectLogin          = "gamehub.events.login"
	SubjectResourceUpdate = "gamehub.events.resources"
	SubjectGift           = "gamehub.events.gift"
)

// Publisher publica os eventos do hub em um servidor NATS.
// Ele é estritamente best-effort: uma falha de publicação vira log, nunca
// um erro para o jogador. Um Publisher nulo (NATS não configurado) é válido
// e todos os métodos viram no-ops.
type Publisher struct {
	nc *nats.Conn
}

// Connect abre a conexão com o NATS. Uma URL vazia desabilita os eventos:
// o Publisher retornado é nulo e seguro de usar.
func Connect(natsURL string) (*Publisher, error) {
	if natsURL == "" {
		return nil, nil
	}

	nc, err := nats.Connect(natsURL,
		nats.Name("gamehub-session"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("connecting to NATS at %s: %w", natsURL, err)
	}

	log.Printf("[Events] Connected to NATS at %s", natsURL)
	return &Publisher{nc: nc}, nil
}

// Healthy reporta o estado da conexão para o health check.
// Eventos desabilitados contam como saudável.
func (p *Publisher) Healthy() error {
	if p == nil || p.nc == nil {
		return nil
	}
	if !p.nc.IsConnected() {
		return fmt.Errorf("NATS connection is down")
	}
	return nil
}

// Close descarrega as publicações pendentes e fecha a conexão.
func (p *Publisher) Close() {
	if p == nil || p.nc == nil {
		return
	}
	p.nc.Flush()
	p.nc.Close()
}

// loginEvent é o corpo do evento de login.
type loginEvent struct {
	PlayerID int64     `json:"playerId"`
	DeviceID string    `json:"deviceId"`
	At       time.Time `json:"at"`
}

// resourceEvent é o corpo do evento de atualização de recurso.
type resourceEvent struct {
	PlayerID int64     `json:"playerId"`
	Kind     string    `json:"resourceType"`
	Delta    int64     `json:"delta"`
	Balance  int64     `json:"balance"`
	At       time.Time `json:"at"`
}

// giftEvent é o corpo do evento de presente.
type giftEvent struct {
	FromPlayerID int64     `json:"fromPlayerId"`
	ToPlayerID   int64     `json:"toPlayerId"`
	Kind         string    `json:"resourceType"`
	Amount       int64     `json:"amount"`
	At           time.Time `json:"at"`
}

// PublishLogin publica o evento de login de um jogador.
func (p *Publisher) PublishLogin(playerID int64, deviceID string) {
	p.publish(SubjectLogin, loginEvent{
		PlayerID: playerID,
		DeviceID: deviceID,
		At:       time.Now().UTC(),
	})
}

// PublishResourceUpdate publica a mudança de saldo de um jogador.
func (p *Publisher) PublishResourceUpdate(playerID int64, kind resource.Kind, delta, balance int64) {
	p.publish(SubjectResourceUpdate, resourceEvent{
		PlayerID: playerID,
		Kind:     string(kind),
		Delta:    delta,
		Balance:  balance,
		At:       time.Now().UTC(),
	})
}

// PublishGift publica a transferência de um presente entre dois jogadores.
func (p *Publisher) PublishGift(fromID, toID int64, kind resource.Kind, amount int64) {
	p.publish(SubjectGift, giftEvent{
		FromPlayerID: fromID,
		ToPlayerID:   toID,
		Kind:         string(kind),
		Amount:       amount,
		At:           time.Now().UTC(),
	})
}

func (p *Publisher) publish(subject string, event any) {
	if p == nil || p.nc == nil {
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("[Events] Failed to encode event for %s: %v", subject, err)
		return
	}

	if err := p.nc.Publish(subject, data); err != nil {
		log.Printf("[Events] Failed to publish to %s: %v", subject, err)
	}
}
