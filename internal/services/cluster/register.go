package cluster

import (
	"fmt"
	"log"
	"os"

	consul "github.com/hashicorp/consul/api"
)

// RegisterServiceInConsul registra este hub no Consul com um health check HTTP.
// O agente do Consul usa automaticamente o endereço IP do contêiner que está
// fazendo o registro, por isso não setamos Address explicitamente.
func RegisterServiceInConsul(serviceName string, servicePort int, healthPort int, consulAddr string) error {
	config := consul.DefaultConfig()
	config.Address = consulAddr

	consulClient, err := consul.NewClient(config)
	if err != nil {
		return fmt.Errorf("creating consul client: %w", err)
	}

	// O hostname é perfeito para criar um ID de serviço único.
	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		// Fallback caso a variável de ambiente não esteja setada
		hostname, _ = os.Hostname()
	}
	serviceID := fmt.Sprintf("%s-%s", serviceName, hostname)

	registration := &consul.AgentServiceRegistration{
		ID:   serviceID,
		Name: serviceName,
		Port: servicePort,

		Check: &consul.AgentServiceCheck{
			// A URL do check precisa de um host. Dentro da rede do compose o
			// hostname do contêiner é resolvível por DNS, então usá-lo aqui é
			// a abordagem correta e mais legível.
			HTTP: fmt.Sprintf("http://%s:%d/health", hostname, healthPort),

			Timeout:  "5s",
			Interval: "10s",
			// Desregistra automaticamente o serviço se ele ficar em estado
			// crítico por mais de 1 minuto.
			DeregisterCriticalServiceAfter: "1m",
		},
	}

	if err := consulClient.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("registering service in consul: %w", err)
	}

	log.Printf("[Cluster] Service '%s' registered in Consul with ID: %s", serviceName, serviceID)
	return nil
}
