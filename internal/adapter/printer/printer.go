package printer

import (
	"context"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/ports"
)

// ESC/POS control sequences for network thermal printers.
var (
	escInit = []byte{0x1b, 0x40}
	escCut  = []byte{0x0a, 0x0a, 0x0a, 0x1d, 0x56, 0x00}
)

// New selects a printer backend by mode. Unknown modes fall back to dryrun
// so a misconfigured kitchen never loses tickets silently.
func New(mode, dir, host string, port int, log *zap.Logger) ports.Printer {
	switch mode {
	case "network":
		return NewNetwork(host, port, log)
	case "dryrun", "":
		return NewDryRun(dir, log)
	default:
		log.Warn("Unknown printer mode, using dryrun", zap.String("mode", mode))
		return NewDryRun(dir, log)
	}
}

// DryRun writes tickets to a directory instead of a physical printer.
// Used in development and as the safety fallback.
type DryRun struct {
	dir string
	log *zap.Logger
}

func NewDryRun(dir string, log *zap.Logger) *DryRun {
	if dir == "" {
		dir = filepath.Join("data", "prints")
	}
	return &DryRun{dir: dir, log: log}
}

func (p *DryRun) Print(ctx context.Context, orderID, ticket string) error {
	if err := os.MkdirAll(p.dir, 0o755); err != nil {
		return fmt.Errorf("create print dir: %w", err)
	}
	path := filepath.Join(p.dir, fmt.Sprintf("order_%s.txt", orderID))
	if err := os.WriteFile(path, []byte(ticket), 0o644); err != nil {
		return fmt.Errorf("write ticket: %w", err)
	}
	p.log.Info("Ticket written", zap.String("order_id", orderID), zap.String("path", path))
	return nil
}

// Network sends tickets to an ESC/POS thermal printer over TCP.
type Network struct {
	host string
	port int
	log  *zap.Logger
}

func NewNetwork(host string, port int, log *zap.Logger) *Network {
	if port == 0 {
		port = 9100
	}
	return &Network{host: host, port: port, log: log}
}

func (p *Network) Print(ctx context.Context, orderID, ticket string) error {
	addr := net.JoinHostPort(p.host, fmt.Sprintf("%d", p.port))

	dialer := net.Dialer{Timeout: 5 * time.Second}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("connect printer %s: %w", addr, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetWriteDeadline(deadline)
	} else {
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	}

	payload := append(append(append([]byte{}, escInit...), []byte(ticket)...), escCut...)
	if _, err := conn.Write(payload); err != nil {
		return fmt.Errorf("write to printer %s: %w", addr, err)
	}

	p.log.Info("Ticket printed", zap.String("order_id", orderID), zap.String("printer", addr))
	return nil
}
