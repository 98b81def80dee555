package loadbalancer

import "sync"

// LoadBalancer hands out backend base URLs round-robin. The gateway
// uses it to spread proxied traffic when more than one sales backend is
// configured; with a single backend it degenerates to a constant.
type LoadBalancer struct {
	mu      sync.Mutex
	servers []string
	current int
}

func NewLoadBalancer(servers []string) *LoadBalancer {
	return &LoadBalancer{servers: servers}
}

// NextServer returns the next backend, or "" when none are configured.
func (lb *LoadBalancer) NextServer() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if len(lb.servers) == 0 {
		return ""
	}
	server := lb.servers[lb.current]
	lb.current = (lb.current + 1) % len(lb.servers)
	return server
}

func (lb *LoadBalancer) Len() int {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return len(lb.servers)
}
