package main

import (
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/caarlos0/env/v11"

	"gamehub/internal/network"
	"gamehub/internal/services/cluster"
	"gamehub/internal/services/events"
	"gamehub/internal/session"
)

// ============================================================================
// Configuração
// ============================================================================

// Config armazena todas as configurações da aplicação, carregadas de
// variáveis de ambiente. ConsulAddr e NatsURL vazios desabilitam a
// respectiva integração: o hub roda sozinho em localhost sem nenhuma delas.
type Config struct {
	ServiceName string `env:"SESSION_SERVICE_NAME" envDefault:"gamehub-session"`
	ServicePort int    `env:"SESSION_SERVICE_PORT" envDefault:"8080"`
	HealthPort  int    `env:"HEALTH_CHECK_PORT" envDefault:"8080"`
	ConsulAddr  string `env:"CONSUL_HTTP_ADDR"`
	NatsURL     string `env:"NATS_URL"`
}

// ============================================================================
// Função Main
// ============================================================================

func main() {
	// 1. CARREGA A CONFIGURAÇÃO
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("Fatal: Falha ao carregar configuração: %v", err)
	}
	log.Printf("[Main] Configuração carregada: ServiceName=%s, Port=%d, HealthPort=%d, Consul=%q, NATS=%q",
		cfg.ServiceName, cfg.ServicePort, cfg.HealthPort, cfg.ConsulAddr, cfg.NatsURL)

	// 2. INICIA OS COLABORADORES
	publisher, err := events.Connect(cfg.NatsURL)
	if err != nil {
		log.Fatalf("Fatal: Falha ao conectar no NATS: %v", err)
	}

	registry := session.NewRegistry()
	gameHandler := session.NewGameHandler(registry, publisher)
	server := network.NewServer(gameHandler)
	log.Println("[Main] Registro de jogadores e servidor de rede criados.")

	// 3. CONFIGURA O HEALTH CHECK
	health := cluster.NewHealthAggregator()
	health.AddCheck("nats", publisher.Healthy)
	http.HandleFunc("/health", health.Handler())

	// 4. REGISTRA O SERVIÇO NO CONSUL (quando configurado)
	if cfg.ConsulAddr != "" {
		log.Printf("[Main] Registrando serviço '%s' no Consul...", cfg.ServiceName)
		if err := cluster.RegisterServiceInConsul(cfg.ServiceName, cfg.ServicePort, cfg.HealthPort, cfg.ConsulAddr); err != nil {
			log.Fatalf("Fatal: Falha ao registrar serviço no Consul: %v", err)
		}
	}

	// 5. DESLIGAMENTO GRACIOSO
	// SIGINT/SIGTERM desloga todos os jogadores (fecha as conexões) e
	// descarrega os eventos pendentes antes de encerrar o processo.
	go func() {
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		<-stop

		log.Println("[Main] Sinal de desligamento recebido. Deslogando todos os jogadores...")
		registry.ShutdownAll()
		publisher.Close()
		os.Exit(0)
	}()

	// 6. INICIA O SERVIDOR PRINCIPAL
	// server.Listen é bloqueante e serve as conexões WebSocket (/ws) e o
	// health check (/health) no mesmo listener.
	address := "0.0.0.0:" + strconv.Itoa(cfg.ServicePort)
	log.Printf("[Main] Servidor principal (WebSocket & HTTP) iniciado em %s.", address)

	if err := server.Listen(address); err != nil {
		log.Fatalf("Falha fatal ao iniciar o servidor de rede: %v", err)
	}
}
