package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// Tenant is the tenant scope this instance serves. Every entity the
	// features read or write carries this tenant id.
	Tenant string `mapstructure:"tenant" default:"default"`
}

// ListenAddr returns the address the Fiber app listens on.
func (c Config) ListenAddr() string {
	return ":" + c.Port
}
