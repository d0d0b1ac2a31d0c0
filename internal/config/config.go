package config

import "os"

type Config struct {
	ServerURL  string // websocket endpoint of the game authority
	APIBaseURL string // base URL for the read-only feed/cards API
	PlayerName string
	Port       string // stub server listen port
}

func FromEnv() Config {
	c := Config{}
	c.ServerURL = getenv("AV_SERVER_URL", "ws://localhost:8080/ws")
	c.APIBaseURL = getenv("AV_API_URL", "http://localhost:8080")
	c.PlayerName = os.Getenv("AV_PLAYER_NAME")
	c.Port = getenv("PORT", "8080")
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
