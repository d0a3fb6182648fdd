// dial connects to one address out of the configured port range, over raw
// UDP by default or an emulated TCP flow with -tcp.

package main

import (
	"net"

	"github.com/pkg/errors"
	mintcp "github.com/xtaci/mintcp"
	"github.com/xtaci/mintcp/std"
	"github.com/xtaci/tcpraw"
)

func dial(config *Config, block mintcp.BlockCrypt) (*mintcp.Session, error) {
	mp, err := std.ParseMultiPort(config.RemoteAddr)
	if err != nil {
		return nil, err
	}
	remoteAddr := mp.PickAddr()

	if config.TCP {
		conn, err := tcpraw.Dial("tcp", remoteAddr)
		if err != nil {
			return nil, errors.Wrap(err, "tcpraw.Dial()")
		}
		raddr, err := net.ResolveTCPAddr("tcp", remoteAddr)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return mintcp.NewConn(conn, true, raddr, block, config.Wnd, config.RTO)
	}

	return mintcp.DialWithOptions(remoteAddr, block, config.Wnd, config.RTO)
}
