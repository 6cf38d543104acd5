package tools

import (
	"net"
	"strconv"

	"github.com/rs/zerolog/log"
)

// IsListening makes one TCP connect attempt to host:port with the OS default
// timeout and reports whether it succeeded.
func IsListening(host string, port int) bool {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		log.Debug().Str("addr", addr).Err(err).Msg("tools.IsListening no listener")
		return false
	}
	_ = conn.Close()
	return true
}
