package session

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamehub/internal/game/resource"
	"gamehub/internal/network"
	"gamehub/internal/session/message"
)

func newTestHandler() (*GameHandler, *Registry) {
	registry := NewRegistry()
	// Eventos desabilitados: o publicador nulo é um no-op.
	return NewGameHandler(registry, nil), registry
}

func decodeSuccess(t *testing.T, msg network.Message) message.SuccessClientPayload {
	t.Helper()
	require.Equal(t, "Response", msg.Type)
	var payload message.SuccessClientPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	return payload
}

func decodeError(t *testing.T, msg network.Message) string {
	t.Helper()
	require.Equal(t, "Error", msg.Type)
	var payload message.ErrorClientPayload
	require.NoError(t, json.Unmarshal(msg.Payload, &payload))
	return payload.Error
}

// loginPlayer faz o login pela via normal do dispatch e retorna o id
// atribuído ao jogador.
func loginPlayer(t *testing.T, h *GameHandler, conn *fakeConn, deviceID string) int64 {
	t.Helper()
	h.dispatch(conn, []byte(fmt.Sprintf(`{"MsgType":"Login","deviceId":%q}`, deviceID)))

	payload := decodeSuccess(t, conn.next(t))
	idStr, ok := payload.Data.(string)
	require.True(t, ok, "login response data should be the player id as a string")
	id, err := strconv.ParseInt(idStr, 10, 64)
	require.NoError(t, err)
	return id
}

func TestLoginAssignsPlayerID(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()

	id := loginPlayer(t, h, conn, "d1")

	p, err := registry.LookupByID(id)
	require.NoError(t, err)
	assert.Equal(t, "d1", p.DeviceID)
}

func TestLoginIsIdempotent(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()

	first := loginPlayer(t, h, conn, "d1")
	second := loginPlayer(t, h, conn, "d1")

	assert.Equal(t, first, second)
	assert.Equal(t, 1, registry.Len())
}

func TestLoginRequiresDeviceID(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()

	h.dispatch(conn, []byte(`{"MsgType":"Login"}`))

	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "deviceId")
	assert.Equal(t, 0, registry.Len())
}

func TestMalformedFrameKeepsConnectionUsable(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()

	h.dispatch(conn, []byte(`{not json`))
	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "malformed")
	assert.Equal(t, 0, registry.Len())

	// A conexão continua aberta: um frame válido em seguida funciona.
	id := loginPlayer(t, h, conn, "d1")
	assert.Equal(t, 1, registry.Len())
	_, err := registry.LookupByID(id)
	assert.NoError(t, err)
}

func TestUnknownMessageKind(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()

	h.dispatch(conn, []byte(`{"MsgType":"Foo"}`))

	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "unknown message kind")
	assert.Equal(t, 0, registry.Len())
}

func TestUpdateResourcesRequiresLogin(t *testing.T) {
	h, _ := newTestHandler()
	conn := newFakeConn()

	h.dispatch(conn, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":10}`))

	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "not found")
}

func TestUpdateResourcesFlow(t *testing.T) {
	h, _ := newTestHandler()
	conn := newFakeConn()
	loginPlayer(t, h, conn, "d1")

	h.dispatch(conn, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":50}`))
	payload := decodeSuccess(t, conn.next(t))
	assert.Equal(t, "50", payload.Data)

	h.dispatch(conn, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":-20}`))
	payload = decodeSuccess(t, conn.next(t))
	assert.Equal(t, "30", payload.Data)
}

func TestUpdateResourcesInvalidKind(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()
	id := loginPlayer(t, h, conn, "d1")

	h.dispatch(conn, []byte(`{"MsgType":"UpdateResources","resourceType":"Gem","resourceValue":10}`))

	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "unknown resource kind")

	p, err := registry.LookupByID(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Ledger.Balance(resource.Coin))
}

func TestUpdateResourcesRejectsNegativeBalance(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()
	id := loginPlayer(t, h, conn, "d1")

	h.dispatch(conn, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":-10}`))

	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "insufficient balance")

	p, err := registry.LookupByID(id)
	require.NoError(t, err)
	assert.Equal(t, int64(0), p.Ledger.Balance(resource.Coin))
}

// Cenário completo: A e B logam, A ganha 50 moedas e presenteia B com 20.
func TestSendGiftScenario(t *testing.T) {
	h, registry := newTestHandler()
	connA := newFakeConn()
	connB := newFakeConn()

	idA := loginPlayer(t, h, connA, "d1")
	idB := loginPlayer(t, h, connB, "d2")

	h.dispatch(connA, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":50}`))
	decodeSuccess(t, connA.next(t))

	h.dispatch(connA, []byte(fmt.Sprintf(
		`{"MsgType":"SendGift","friendPlayerId":%d,"resourceType":"Coin","resourceValue":20}`, idB)))

	// Confirmação para o remetente.
	payload := decodeSuccess(t, connA.next(t))
	assert.Equal(t, fmt.Sprintf("Gift was sent successfully to player %d", idB), payload.Message)

	// Notificação empurrada para o destinatário.
	push := connB.next(t)
	require.Equal(t, "GiftReceived", push.Type)
	var gift message.GiftClientPayload
	require.NoError(t, json.Unmarshal(push.Payload, &gift))
	assert.Equal(t, idA, gift.FromPlayerID)
	assert.Equal(t, "Coin", gift.ResourceType)
	assert.Equal(t, int64(20), gift.Amount)

	// Conservação: o que saiu de A entrou em B.
	playerA, err := registry.LookupByID(idA)
	require.NoError(t, err)
	playerB, err := registry.LookupByID(idB)
	require.NoError(t, err)
	assert.Equal(t, int64(30), playerA.Ledger.Balance(resource.Coin))
	assert.Equal(t, int64(20), playerB.Ledger.Balance(resource.Coin))
}

func TestSendGiftToSelf(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()
	id := loginPlayer(t, h, conn, "d1")

	h.dispatch(conn, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":10}`))
	decodeSuccess(t, conn.next(t))

	h.dispatch(conn, []byte(fmt.Sprintf(
		`{"MsgType":"SendGift","friendPlayerId":%d,"resourceType":"Coin","resourceValue":5}`, id)))

	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "yourself")

	p, err := registry.LookupByID(id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Ledger.Balance(resource.Coin))
}

func TestSendGiftUnknownRecipient(t *testing.T) {
	h, registry := newTestHandler()
	conn := newFakeConn()
	id := loginPlayer(t, h, conn, "d1")

	h.dispatch(conn, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":10}`))
	decodeSuccess(t, conn.next(t))

	h.dispatch(conn, []byte(`{"MsgType":"SendGift","friendPlayerId":999,"resourceType":"Coin","resourceValue":5}`))

	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "not found")

	// O destinatário não existe, então nada pode ter saído do remetente.
	p, err := registry.LookupByID(id)
	require.NoError(t, err)
	assert.Equal(t, int64(10), p.Ledger.Balance(resource.Coin))
}

func TestSendGiftInsufficientBalance(t *testing.T) {
	h, registry := newTestHandler()
	connA := newFakeConn()
	connB := newFakeConn()
	idA := loginPlayer(t, h, connA, "d1")
	idB := loginPlayer(t, h, connB, "d2")

	h.dispatch(connA, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":10}`))
	decodeSuccess(t, connA.next(t))

	h.dispatch(connA, []byte(fmt.Sprintf(
		`{"MsgType":"SendGift","friendPlayerId":%d,"resourceType":"Coin","resourceValue":20}`, idB)))

	errMsg := decodeError(t, connA.next(t))
	assert.Contains(t, errMsg, "insufficient balance")

	// Os dois saldos ficam intactos.
	playerA, err := registry.LookupByID(idA)
	require.NoError(t, err)
	playerB, err := registry.LookupByID(idB)
	require.NoError(t, err)
	assert.Equal(t, int64(10), playerA.Ledger.Balance(resource.Coin))
	assert.Equal(t, int64(0), playerB.Ledger.Balance(resource.Coin))
}

// O destinatário pode desconectar entre o lookup e o push da notificação;
// o canal de saída dele já está fechado quando o presente tenta avisar. A
// transferência já foi efetivada, então o remetente ainda recebe a
// confirmação dele e os saldos ficam corretos.
func TestSendGiftRecipientDisconnectedStillConfirms(t *testing.T) {
	h, registry := newTestHandler()
	connA := newFakeConn()
	idA := loginPlayer(t, h, connA, "d1")

	// Registra o destinatário com uma conexão cujo canal de saída já foi
	// fechado, como o hub faz ao desregistrar um cliente.
	connB := newFakeConn()
	close(connB.ch)
	playerB, err := registry.Register("d2", connB)
	require.NoError(t, err)

	h.dispatch(connA, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":50}`))
	decodeSuccess(t, connA.next(t))

	h.dispatch(connA, []byte(fmt.Sprintf(
		`{"MsgType":"SendGift","friendPlayerId":%d,"resourceType":"Coin","resourceValue":20}`, playerB.ID)))

	// A confirmação chega mesmo com o push para o destinatário perdido.
	payload := decodeSuccess(t, connA.next(t))
	assert.Equal(t, fmt.Sprintf("Gift was sent successfully to player %d", playerB.ID), payload.Message)

	playerA, err := registry.LookupByID(idA)
	require.NoError(t, err)
	assert.Equal(t, int64(30), playerA.Ledger.Balance(resource.Coin))
	assert.Equal(t, int64(20), playerB.Ledger.Balance(resource.Coin))
}

// Se o crédito no destinatário falhar depois do débito, o remetente é
// estornado e o total de recursos se conserva. O saldo do destinatário é
// saturado para forçar a falha do crédito.
func TestSendGiftCreditFailureRefundsSender(t *testing.T) {
	h, registry := newTestHandler()
	connA := newFakeConn()
	connB := newFakeConn()
	idA := loginPlayer(t, h, connA, "d1")
	idB := loginPlayer(t, h, connB, "d2")

	h.dispatch(connA, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":10}`))
	decodeSuccess(t, connA.next(t))

	playerB, err := registry.LookupByID(idB)
	require.NoError(t, err)
	_, err = playerB.Ledger.Apply(resource.Coin, math.MaxInt64)
	require.NoError(t, err)

	h.dispatch(connA, []byte(fmt.Sprintf(
		`{"MsgType":"SendGift","friendPlayerId":%d,"resourceType":"Coin","resourceValue":5}`, idB)))

	decodeError(t, connA.next(t))

	playerA, err := registry.LookupByID(idA)
	require.NoError(t, err)
	assert.Equal(t, int64(10), playerA.Ledger.Balance(resource.Coin))
	assert.Equal(t, int64(math.MaxInt64), playerB.Ledger.Balance(resource.Coin))
}

func TestSendGiftRejectsNegativeAmount(t *testing.T) {
	h, _ := newTestHandler()
	conn := newFakeConn()
	loginPlayer(t, h, conn, "d1")

	h.dispatch(conn, []byte(`{"MsgType":"SendGift","friendPlayerId":2,"resourceType":"Coin","resourceValue":-5}`))

	errMsg := decodeError(t, conn.next(t))
	assert.Contains(t, errMsg, "negative")
}

// Presentes concorrentes do mesmo remetente somando mais que o saldo:
// exatamente o subconjunto que cabe no saldo deve ter sucesso.
func TestConcurrentGiftsNoDoubleSpend(t *testing.T) {
	h, registry := newTestHandler()
	connA := newFakeConn()
	connB := newFakeConn()
	idA := loginPlayer(t, h, connA, "d1")
	idB := loginPlayer(t, h, connB, "d2")

	h.dispatch(connA, []byte(`{"MsgType":"UpdateResources","resourceType":"Coin","resourceValue":10}`))
	decodeSuccess(t, connA.next(t))

	const attempts = 20
	raw := []byte(fmt.Sprintf(
		`{"MsgType":"SendGift","friendPlayerId":%d,"resourceType":"Coin","resourceValue":1}`, idB))

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			h.dispatch(connA, raw)
		}()
	}
	wg.Wait()

	succeeded := 0
	for i := 0; i < attempts; i++ {
		if connA.next(t).Type == "Response" {
			succeeded++
		}
	}
	assert.Equal(t, 10, succeeded)

	playerA, err := registry.LookupByID(idA)
	require.NoError(t, err)
	playerB, err := registry.LookupByID(idB)
	require.NoError(t, err)
	assert.Equal(t, int64(0), playerA.Ledger.Balance(resource.Coin))
	assert.Equal(t, int64(10), playerB.Ledger.Balance(resource.Coin))
}
