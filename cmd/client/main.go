// gamehub/cmd/client/main.go
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"gamehub/internal/network"
	"gamehub/internal/session/message"
)

func main() {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	// Endereço do hub, sobrescritível por variável de ambiente.
	addr := os.Getenv("GAMEHUB_ADDR")
	if addr == "" {
		addr = "localhost:8080"
	}

	u := url.URL{Scheme: "ws", Host: addr, Path: "/ws"}
	log.Printf("Conectando ao GameHub em %s", u.String())

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Não foi possível conectar ao servidor: %v", err)
	}
	defer conn.Close()
	log.Println("Conexão WebSocket bem-sucedida!")

	done := make(chan struct{})
	go readLoop(conn, done)

	printHelp()

	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			handleUserInput(conn, scanner.Text())
		}
	}()

	select {
	case <-done:
		log.Println("Desconectado do servidor.")
	case <-interrupt:
		log.Println("Interrupção recebida, fechando conexão.")
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	}
}

// readLoop imprime tudo que o servidor mandar: respostas diretas e pushes
// de presente.
func readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		var msg network.Message
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}

		switch msg.Type {
		case "Response":
			var payload message.SuccessClientPayload
			if err := json.Unmarshal(msg.Payload, &payload); err == nil {
				if payload.Data != nil {
					fmt.Printf(">> %s (%v)\n", payload.Message, payload.Data)
				} else {
					fmt.Printf(">> %s\n", payload.Message)
				}
				continue
			}
		case "Error":
			var payload message.ErrorClientPayload
			if err := json.Unmarshal(msg.Payload, &payload); err == nil {
				fmt.Printf("!! %s\n", payload.Error)
				continue
			}
		case "GiftReceived":
			var payload message.GiftClientPayload
			if err := json.Unmarshal(msg.Payload, &payload); err == nil {
				fmt.Printf("** %s Player %d sent you %d %s.\n",
					payload.Message, payload.FromPlayerID, payload.Amount, payload.ResourceType)
				continue
			}
		}

		// Qualquer coisa que não reconhecemos é impressa crua.
		fmt.Printf("?? %s %s\n", msg.Type, string(msg.Payload))
	}
}

func printHelp() {
	fmt.Println("Comandos disponíveis:")
	fmt.Println("  login [deviceId]               - autentica (gera um deviceId se omitido)")
	fmt.Println("  update <Coin|Roll> <delta>     - soma um delta ao seu saldo")
	fmt.Println("  gift <playerId> <Coin|Roll> <amount> - envia um presente")
	fmt.Println("  help                           - mostra esta ajuda")
}

func handleUserInput(conn *websocket.Conn, input string) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return
	}

	switch fields[0] {
	case "login":
		deviceID := uuid.NewString()
		if len(fields) > 1 {
			deviceID = fields[1]
		}
		sendJSON(conn, map[string]any{
			"MsgType":  "Login",
			"deviceId": deviceID,
		})
		fmt.Printf("-- login enviado (deviceId=%s)\n", deviceID)

	case "update":
		if len(fields) != 3 {
			fmt.Println("!! uso: update <Coin|Roll> <delta>")
			return
		}
		delta, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			fmt.Println("!! delta precisa ser um inteiro")
			return
		}
		sendJSON(conn, map[string]any{
			"MsgType":       "UpdateResources",
			"resourceType":  fields[1],
			"resourceValue": delta,
		})

	case "gift":
		if len(fields) != 4 {
			fmt.Println("!! uso: gift <playerId> <Coin|Roll> <amount>")
			return
		}
		playerID, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			fmt.Println("!! playerId precisa ser um inteiro")
			return
		}
		amount, err := strconv.ParseInt(fields[3], 10, 64)
		if err != nil {
			fmt.Println("!! amount precisa ser um inteiro")
			return
		}
		sendJSON(conn, map[string]any{
			"MsgType":        "SendGift",
			"friendPlayerId": playerID,
			"resourceType":   fields[2],
			"resourceValue":  amount,
		})

	case "help":
		printHelp()

	default:
		fmt.Printf("!! comando desconhecido: %s (use 'help')\n", fields[0])
	}
}

func sendJSON(conn *websocket.Conn, payload map[string]any) {
	if err := conn.WriteJSON(payload); err != nil {
		log.Printf("Erro ao enviar mensagem: %v", err)
	}
}
