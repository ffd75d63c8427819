package server

const (
	defaultHTTPAddr = "127.0.0.1:9470"
	defaultGRPCAddr = "127.0.0.1:9471"
)

// Config represents the configuration of the slot host endpoints.
type Config struct {
	// HTTPAddr serves /metrics and /status.
	HTTPAddr string `yaml:"http_addr"`
	// GRPCAddr serves the gRPC health service.
	GRPCAddr string `yaml:"grpc_addr"`
}

// Default binds both endpoints to the loopback interface, so metrics and
// status are not exposed unless configured explicitly.
func (m *Config) Default() {
	m.HTTPAddr = defaultHTTPAddr
	m.GRPCAddr = defaultGRPCAddr
}
