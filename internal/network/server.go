package network

import (
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
)

// Server é a estrutura principal do nosso servidor de rede.
// Ele gerencia um Hub e o endpoint WebSocket.
type Server struct {
	hub *Hub
}

// upgrader armazena as configurações para promover uma conexão HTTP para WebSocket.
var upgrader = websocket.Upgrader{
	// CheckOrigin permite controlar quais domínios podem se conectar.
	// Para desenvolvimento, retornamos 'true' para permitir qualquer origem.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// NewServer aceita um EventHandler e o injeta no Hub.
// Este é o ponto de injeção da lógica do jogo.
func NewServer(handler EventHandler) *Server {
	return &Server{
		hub: NewHub(handler),
	}
}

// wsHandler é o ponto de entrada para conexões de clientes.
// Ele lida com a requisição HTTP e a promove para uma conexão WebSocket.
func (s *Server) wsHandler(w http.ResponseWriter, r *http.Request) {
	// 1. Promove a conexão HTTP para uma conexão WebSocket persistente.
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		fmt.Printf("Erro ao fazer upgrade da conexão: %v\n", err)
		return
	}

	// 2. Cria o nosso Client usando a conexão WebSocket.
	client := &Client{
		conn: conn,
		hub:  s.hub,
		send: make(chan Message, 256),
	}

	// 3. Registra o novo cliente no Hub.
	client.hub.register <- client

	// 4. Inicia as goroutines de leitura e escrita.
	go client.writeLoop()
	go client.readLoop()
}

// Listen inicia o Hub, configura a rota do WebSocket e sobe o servidor HTTP.
// Outros handlers registrados no http.DefaultServeMux (health check, por
// exemplo) são servidos pelo mesmo listener.
func (s *Server) Listen(address string) error {
	// Inicia a goroutine do Hub.
	go s.hub.Run()

	// Todas as conexões WebSocket virão por "/ws".
	http.HandleFunc("/ws", s.wsHandler)

	fmt.Printf("Servidor WebSocket escutando em ws://%s/ws\n", address)

	// http.ListenAndServe é bloqueante.
	return http.ListenAndServe(address, nil)
}
