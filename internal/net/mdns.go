package net

import (
	"context"
	"fmt"
	"os"
	"time"

	"InkBoard/internal/logging"

	"github.com/hashicorp/mdns"
)

const serviceType = "_inkboard._tcp"

// Advertise announces a shared board on the local network until the
// returned server is shut down.
func Advertise(name string, port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if name == "" {
		name = host
	}
	service, err := mdns.NewMDNSService(name, serviceType, "", "", port, nil, []string{"InkBoard", "board=" + name})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	logging.Logger().Info("advertising board", "name", name, "port", port)
	return server, nil
}

// Found is a board discovered on the network.
type Found struct {
	Name string
	Addr string
}

// Link returns the share link of the board.
func (f Found) Link() string {
	return LinkScheme + f.Addr
}

func found(e *mdns.ServiceEntry) (Found, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Found{}, false
	}
	return Found{Name: e.Name, Addr: fmt.Sprintf("%s:%d", e.AddrV4, e.Port)}, true
}

// Browse lists the boards answering within timeout.
func Browse(ctx context.Context, timeout time.Duration) ([]Found, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	params := mdns.DefaultParams(serviceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	errc := make(chan error, 1)
	go func() {
		errc <- mdns.Query(params)
		close(entries)
	}()

	seen := map[string]bool{}
	var out []Found
	for {
		select {
		case e, ok := <-entries:
			if !ok {
				if err := <-errc; err != nil {
					return out, fmt.Errorf("mdns query: %w", err)
				}
				return out, nil
			}
			if f, ok := found(e); ok && !seen[f.Addr] {
				seen[f.Addr] = true
				out = append(out, f)
			}
		case <-ctx.Done():
			return out, ctx.Err()
		}
	}
}
