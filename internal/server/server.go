// Package server はRADIUS UDPリスナーとリクエストディスパッチを提供する。
package server

import (
	"context"
	"net"

	"layeh.com/radius"
)

// Server はRADIUS UDPサーバーのラッパー
type Server struct {
	ps *radius.PacketServer
}

// NewServer は新しいServerを生成する
func NewServer(addr string, handler radius.Handler, secretSource radius.SecretSource) *Server {
	return &Server{
		ps: &radius.PacketServer{
			Addr:         addr,
			SecretSource: secretSource,
			Handler:      handler,
		},
	}
}

// ListenAndServe はUDPサーバーを起動する
func (s *Server) ListenAndServe() error {
	return s.ps.ListenAndServe()
}

// Shutdown はサーバーをグレースフルに停止する
func (s *Server) Shutdown(ctx context.Context) error {
	return s.ps.Shutdown(ctx)
}

// extractIP はnet.AddrからIPアドレス文字列を抽出する
func extractIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	if udpAddr, ok := addr.(*net.UDPAddr); ok {
		return udpAddr.IP.String()
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return ""
	}
	return host
}
