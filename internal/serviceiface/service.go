package serviceiface

// Service is the unit the app manager starts and stops, in the order
// services.yaml prescribes.
type Service interface {
	Name() string
	Start() error
	Stop() error
}
