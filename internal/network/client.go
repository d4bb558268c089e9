package network

import (
	"fmt"
	"net"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Tempo para aguardar por uma escrita na conexão.
	writeWait = 10 * time.Second

	// Tempo máximo para aguardar por uma resposta de pong do cliente.
	pongWait = 60 * time.Second

	// Frequência com que enviamos pings para o cliente. Deve ser menor que pongWait.
	pingPeriod = (pongWait * 9) / 10
)

// Client é a representação de um jogador conectado do ponto de vista do servidor.
// Ele agrupa a conexão e os canais de comunicação.
type Client struct {
	// A conexão WebSocket real com o jogador.
	conn *websocket.Conn

	// Uma referência ao Hub central. O cliente usa isso para se (des)registrar.
	hub *Hub

	// Um canal bufferizado para mensagens de saída.
	// Os handlers colocam as mensagens aqui, e a goroutine writeLoop as envia.
	// O buffer evita que um handler bloqueie se o cliente estiver lento.
	send chan Message
}

// Conn retorna a conexão net.Conn subjacente do cliente.
// Útil para obter informações como o endereço IP do jogador em logs.
func (c *Client) Conn() net.Conn {
	return c.conn.UnderlyingConn()
}

// Send expõe o lado de escrita do canal de saída do cliente.
func (c *Client) Send() chan<- Message {
	return c.send
}

// Close encerra a conexão subjacente. Fechar a conexão faz o readLoop
// retornar, o que por sua vez desregistra o cliente no Hub.
func (c *Client) Close() error {
	return c.conn.Close()
}

// readLoop lê frames do cliente e os entrega, em ordem de chegada, ao
// EventHandler do Hub. Cada cliente tem a sua própria goroutine de leitura,
// então mensagens de clientes diferentes são processadas concorrentemente
// sem nenhuma serialização global.
func (c *Client) readLoop() {
	// Garante que a limpeza ocorrerá quando o loop terminar.
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(MaxMessageSize)

	// Configura um deadline para a próxima mensagem de pong.
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	// O handler de pong atualiza o read deadline, mantendo a conexão viva.
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		// Lemos o frame bruto. A decodificação do JSON fica com o dispatcher:
		// um frame malformado não pode derrubar a conexão, apenas gerar uma
		// resposta de erro.
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			// websocket.IsUnexpectedCloseError é útil para logar desconexões inesperadas.
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				fmt.Printf("Erro inesperado no cliente %s: %v\n", c.conn.RemoteAddr(), err)
			}
			// Para qualquer erro (desconexão normal ou anormal), saímos do loop.
			break
		}

		// Chamada síncrona: o próximo frame deste cliente só é lido depois
		// que este terminar de ser processado. É isso que garante a ordem
		// por conexão.
		c.hub.handler.OnMessage(c, raw)
	}
}

// writeLoop bombeia mensagens do canal 'send' do cliente para a conexão WebSocket.
func (c *Client) writeLoop() {
	// Ticker para enviar pings periódicos para o cliente.
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			// Configura um deadline para a escrita para evitar bloqueios indefinidos.
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			// O canal 'send' foi fechado pelo Hub: o cliente foi desregistrado.
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			// WriteJSON serializa a struct Message; a biblioteca cuida do framing.
			if err := c.conn.WriteJSON(msg); err != nil {
				fmt.Printf("Erro de escrita no cliente %s: %v\n", c.conn.RemoteAddr(), err)
				return // Se a escrita falhar, encerramos a goroutine.
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return // Se o ping falhar, a conexão está morta.
			}
		}
	}
}
