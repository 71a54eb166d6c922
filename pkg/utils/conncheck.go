package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/mpapenbr/fantasyf1-service-go/log"
)

// WaitForTCP tries to connect to addr until it succeeds or timeout is reached
func WaitForTCP(ctx context.Context, addr string, timeout time.Duration) error {
	timeoutReached := time.Now().Add(timeout)
	start := time.Now()
	log.Debug("wait for tcp connection",
		log.String("addr", addr),
		log.String("timeout", timeout.String()))
	var d net.Dialer
	for time.Now().Before(timeoutReached) {
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err == nil {
			conn.Close()

			log.Debug("tcp connection successful",
				log.String("addr", addr),
				log.String("duration", time.Since(start).String()))
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
		}
	}
	return fmt.Errorf("%s could not be reached after %v", addr, timeout)
}

var defaultPorts = map[string]string{
	"postgresql": "5432",
	"postgres":   "5432",
	"nats":       "4222",
	"tls":        "4222",
	"http":       "80",
	"https":      "443",
}

// ExtractAddr returns host:port of rawURL. If the URL has no port, the
// default port of the scheme is used. Returns an empty string if the URL
// cannot be parsed or the scheme is unknown.
func ExtractAddr(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	if port := u.Port(); port != "" {
		return net.JoinHostPort(u.Hostname(), port)
	}
	if port, ok := defaultPorts[u.Scheme]; ok {
		return net.JoinHostPort(u.Hostname(), port)
	}
	return ""
}
