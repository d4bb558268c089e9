package network

// EventHandler é a interface que conecta a lógica da rede com a lógica do jogo.
// O nosso código de jogo (fora deste pacote) irá implementar esta interface.
type EventHandler interface {
	// OnConnect é chamado quando um novo cliente se conecta com sucesso.
	OnConnect(c *Client)

	// OnDisconnect é chamado quando um cliente se desconecta.
	OnDisconnect(c *Client)

	// OnMessage é chamado para cada frame recebido de um cliente, na ordem
	// em que chegou. A chamada é feita pela goroutine de leitura do próprio
	// cliente: mensagens de um mesmo cliente nunca são processadas em
	// paralelo, mas clientes diferentes processam concorrentemente.
	OnMessage(c *Client, raw []byte)
}
