package appmanager

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"SalesOpsSaas/api"
	"SalesOpsSaas/api/sales"
	"SalesOpsSaas/internal/jobs"
	"SalesOpsSaas/internal/logger"
	"SalesOpsSaas/internal/serviceiface"

	"gopkg.in/yaml.v3"
)

// The dataset store is the one piece of shared state: the sales service
// writes it, the janitor sweeps it. Wired from main before services
// start.
var datasetStore *sales.DatasetStore

func SetDatasetStore(store *sales.DatasetStore) {
	datasetStore = store
}

func GetDatasetStore() *sales.DatasetStore {
	return datasetStore
}

var serviceConstructors = map[string]func(map[string]interface{}) serviceiface.Service{
	"logger": func(cfg map[string]interface{}) serviceiface.Service {
		l := logger.NewLoggerService(cfg)
		logger.SetGlobalLogger(l)
		return l
	},
	"sales": func(cfg map[string]interface{}) serviceiface.Service {
		return sales.NewSalesService(cfg, datasetStore)
	},
	"cron": func(cfg map[string]interface{}) serviceiface.Service {
		return jobs.NewCronService(cfg, datasetStore)
	},
	"gateway": func(cfg map[string]interface{}) serviceiface.Service {
		return api.NewGatewayService(cfg)
	},
}

// ------------------- MANAGER -------------------

type AppManager struct {
	services []serviceiface.Service
	mu       sync.Mutex
}

func NewAppManager() *AppManager {
	return &AppManager{
		services: make([]serviceiface.Service, 0),
	}
}

func (am *AppManager) RegisterService(s serviceiface.Service) {
	am.mu.Lock()
	defer am.mu.Unlock()
	am.services = append(am.services, s)
}

func (am *AppManager) GetServiceByName(name string) serviceiface.Service {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, svc := range am.services {
		if svc.Name() == name {
			return svc
		}
	}
	return nil
}

func (am *AppManager) StartAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for _, service := range am.services {
		fmt.Println("Starting service:", service.Name())
		if err := service.Start(); err != nil {
			return fmt.Errorf("failed to start service %s: %w", service.Name(), err)
		}
	}
	return nil
}

// StopAll stops services in reverse start order.
func (am *AppManager) StopAll() error {
	am.mu.Lock()
	defer am.mu.Unlock()
	for i := len(am.services) - 1; i >= 0; i-- {
		svc := am.services[i]
		if err := svc.Stop(); err != nil {
			return fmt.Errorf("failed to stop service %s: %w", svc.Name(), err)
		}
	}
	return nil
}

// ------------------- YAML CONFIG -------------------

type ServiceSequencer struct {
	Services []ServiceConfig `yaml:"services"`
}

type ServiceConfig struct {
	Name       string                 `yaml:"name"`
	StartOrder int                    `yaml:"start_order"`
	Config     map[string]interface{} `yaml:"config"`
}

// LoadServiceSequence reads services.yaml and returns the configs
// sorted by start_order.
func LoadServiceSequence(path string) ([]ServiceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var seq ServiceSequencer
	if err := yaml.Unmarshal(data, &seq); err != nil {
		return nil, err
	}
	sort.Slice(seq.Services, func(i, j int) bool {
		return seq.Services[i].StartOrder < seq.Services[j].StartOrder
	})
	return seq.Services, nil
}

// AutoRegisterServices instantiates every known service named in the
// sequence. Unknown names are skipped with a warning rather than
// aborting startup.
func (am *AppManager) AutoRegisterServices(configs []ServiceConfig) {
	for _, svc := range configs {
		constructor, ok := serviceConstructors[svc.Name]
		if !ok {
			fmt.Println("Unknown service in sequence, skipping:", svc.Name)
			continue
		}
		am.RegisterService(constructor(svc.Config))
	}
}
