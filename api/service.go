package api

import "SalesOpsSaas/internal/serviceiface"

type GatewayService struct {
	config map[string]interface{}
}

func NewGatewayService(cfg map[string]interface{}) serviceiface.Service {
	return &GatewayService{config: cfg}
}

func (s *GatewayService) Name() string {
	return "gateway"
}

func (s *GatewayService) Start() error {
	port := 8081
	var backends []string
	if s.config != nil {
		switch p := s.config["port"].(type) {
		case int:
			if p > 0 {
				port = p
			}
		case float64:
			if p > 0 {
				port = int(p)
			}
		}
		if raw, ok := s.config["sales_backends"].([]interface{}); ok {
			for _, b := range raw {
				if s, ok := b.(string); ok && s != "" {
					backends = append(backends, s)
				}
			}
		}
	}
	go StartGateway(port, backends)
	return nil
}

func (s *GatewayService) Stop() error {
	return nil
}
