// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"flag"
	"fmt"
	"net"
)

// ServerFlags holds the listen address options for the daemon's api
// endpoint.
type ServerFlags struct {
	Port int
	IP   string
}

func (sf *ServerFlags) SetFlags(fset *flag.FlagSet) {
	fset.IntVar(&sf.Port, "listen-port", 10000, "TCP port number for the daemon api endpoint")
	fset.StringVar(&sf.IP, "listen-ip", "127.0.0.1", "TCP ip address for the daemon api endpoint")
}

func (sf *ServerFlags) TCPAddr() (*net.TCPAddr, error) {
	ip := net.ParseIP(sf.IP)
	if ip == nil {
		return nil, fmt.Errorf("invalid ip address %q", sf.IP)
	}
	if sf.Port <= 0 {
		return nil, fmt.Errorf("invalid port number %d", sf.Port)
	}
	return &net.TCPAddr{IP: ip, Port: sf.Port}, nil
}
