package params

type ListenerConfig struct {
	// Network is the network to listen on.
	// The network must be "tcp", "tcp4", "tcp6" or "unix".
	Network string `json:"network"`
	// Address is the address to listen on.
	Address string `json:"address"`
}
