// Package ssdp answers UPnP discovery searches so Hue clients find the bridge.
package ssdp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"
)

const multicastAddr = "239.255.255.250:1900"

type Server struct {
	ip   string
	port int
	log  *zap.Logger
}

func NewServer(ip string, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{ip: ip, port: port, log: logger}
}

// Run answers M-SEARCH requests until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	addr, err := net.ResolveUDPAddr("udp4", multicastAddr)
	if err != nil {
		return err
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, addr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		conn.Close()
	}()
	s.log.Info("ssdp responder started", zap.String("location", s.location()))

	buf := make([]byte, 1024)
	for {
		n, src, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			continue
		}
		if wantsResponse(string(buf[:n])) {
			s.respond(src)
		}
	}
}

// wantsResponse matches the searches Echo devices send.
func wantsResponse(msg string) bool {
	if !strings.Contains(msg, "M-SEARCH") {
		return false
	}
	return strings.Contains(msg, "urn:schemas-upnp-org:device:basic:1") ||
		strings.Contains(msg, "upnp:rootdevice") ||
		strings.Contains(msg, "ssdp:all")
}

func (s *Server) location() string {
	return fmt.Sprintf("http://%s:%d/description.xml", s.ip, s.port)
}

func (s *Server) response() string {
	return "HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=100\r\n" +
		"EXT:\r\n" +
		"LOCATION: " + s.location() + "\r\n" +
		"SERVER: FreeRTOS/6.0.5, UPnP/1.1, IpBridge/1.17.0\r\n" +
		"ST: urn:schemas-upnp-org:device:basic:1\r\n" +
		"USN: uuid:2f402f80-da50-11e1-9b23-001788102201::urn:schemas-upnp-org:device:basic:1\r\n\r\n"
}

func (s *Server) respond(dest *net.UDPAddr) {
	conn, err := net.DialUDP("udp4", nil, dest)
	if err != nil {
		s.log.Debug("ssdp dial failed", zap.Stringer("dest", dest), zap.Error(err))
		return
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(s.response())); err != nil {
		s.log.Debug("ssdp response failed", zap.Stringer("dest", dest), zap.Error(err))
	}
}
