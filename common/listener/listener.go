package listener

import (
	"context"
	"net"
	"time"

	"github.com/sagernet/sing/common/control"
)

const (
	defaultKeepAliveIdle     = 5 * time.Minute
	defaultKeepAliveInterval = 75 * time.Second
)

// ListenTCP listens on address with SO_REUSEADDR and TCP keep-alive.
func ListenTCP(ctx context.Context, address string) (net.Listener, error) {
	var listenConfig net.ListenConfig
	listenConfig.Control = control.Append(listenConfig.Control, control.ReuseAddr())
	listenConfig.KeepAliveConfig = net.KeepAliveConfig{
		Enable:   true,
		Idle:     defaultKeepAliveIdle,
		Interval: defaultKeepAliveInterval,
	}
	return listenConfig.Listen(ctx, "tcp", address)
}

// ListenUDP listens on address with SO_REUSEADDR.
func ListenUDP(ctx context.Context, address string) (net.PacketConn, error) {
	var listenConfig net.ListenConfig
	listenConfig.Control = control.Append(listenConfig.Control, control.ReuseAddr())
	return listenConfig.ListenPacket(ctx, "udp", address)
}
