package network

// Hub mantém o conjunto de clientes ativos e notifica o handler sobre o
// ciclo de vida das conexões. As mensagens em si NÃO passam por aqui: elas
// são entregues ao handler diretamente pelo readLoop de cada cliente, para
// que clientes diferentes não serializem uns contra os outros.
type Hub struct {
	// Clientes registrados. O mapa de *Client para bool é um "set" em Go.
	// Acessado SOMENTE pela goroutine do Hub.
	clients map[*Client]bool

	// Canal para registrar novos clientes.
	register chan *Client

	// Canal para desregistrar clientes.
	unregister chan *Client

	// O handler da lógica do jogo que recebe os eventos de conexão.
	handler EventHandler
}

// NewHub cria, inicializa e retorna um novo Hub.
func NewHub(handler EventHandler) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		handler:    handler,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			// Adiciona o cliente ao nosso mapa de registros.
			h.clients[client] = true
			// Notifica o handler da lógica do jogo que um novo cliente chegou.
			h.handler.OnConnect(client)

		case client := <-h.unregister:
			// Verifica se o cliente realmente está no nosso registro.
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				// Fecha o canal 'send' do cliente. Isso é MUITO IMPORTANTE.
				// É o sinal para a goroutine writeLoop daquele cliente parar.
				close(client.send)
				// Notifica o handler da lógica do jogo que o cliente saiu.
				h.handler.OnDisconnect(client)
			}
		}
	}
}
