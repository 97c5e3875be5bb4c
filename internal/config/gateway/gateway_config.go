package gateway

import "time"

// GatewayConfig holds the OneBot11 forward WebSocket connection settings.
type GatewayConfig struct {
	URL              string `json:"url" env:"CYBERBOT_GATEWAY_URL"`
	AccessToken      string `json:"accessToken" env:"CYBERBOT_GATEWAY_ACCESS_TOKEN"`
	ReconnectSeconds int    `json:"reconnectSeconds" env:"CYBERBOT_GATEWAY_RECONNECT_SECONDS"`
	EventBuffer      int    `json:"eventBuffer" env:"CYBERBOT_GATEWAY_EVENT_BUFFER"`
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		URL:              "ws://127.0.0.1:3001",
		ReconnectSeconds: 5,
		EventBuffer:      100,
	}
}

// ReconnectInterval returns the delay between connection attempts.
func (c GatewayConfig) ReconnectInterval() time.Duration {
	if c.ReconnectSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.ReconnectSeconds) * time.Second
}
