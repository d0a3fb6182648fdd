//go:build !linux
// +build !linux

package main

import mintcp "github.com/xtaci/mintcp"

func listen(config *Config, block mintcp.BlockCrypt) (*mintcp.Listener, error) {
	return mintcp.ListenWithOptions(config.Listen, block, config.Wnd, config.RTO)
}
