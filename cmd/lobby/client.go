package main

import (
	"strings"

	"github.com/feltable/lobby/internal/client"
)

type ClientCmd struct {
	Server   string `kong:"default='',help='WebSocket server URL (overrides config)'"`
	Username string `kong:"default='',help='Display name (overrides config)'"`
	Config   string `kong:"default='lobby.hcl',help='Path to HCL config file'"`
}

func (c *ClientCmd) Run() error {
	return client.Run(client.Options{
		Server:     strings.TrimSpace(c.Server),
		Username:   strings.TrimSpace(c.Username),
		ConfigFile: strings.TrimSpace(c.Config),
	})
}
