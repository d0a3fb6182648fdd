//go:build linux
// +build linux

package main

import (
	"github.com/pkg/errors"
	mintcp "github.com/xtaci/mintcp"
	"github.com/xtaci/tcpraw"
)

func listen(config *Config, block mintcp.BlockCrypt) (*mintcp.Listener, error) {
	if config.TCP {
		conn, err := tcpraw.Listen("tcp", config.Listen)
		if err != nil {
			return nil, errors.Wrap(err, "tcpraw.Listen()")
		}
		return mintcp.ServeConn(block, config.Wnd, config.RTO, conn)
	}
	return mintcp.ListenWithOptions(config.Listen, block, config.Wnd, config.RTO)
}
