// Package display relays emotion codes to the ESP32 pet display.
package display

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultPort is the UDP port the display firmware listens on.
const DefaultPort = 5005

// Notifier sends one UDP datagram per emotion update. The device only
// reacts to the most recent code, so delivery is best-effort and
// unacknowledged.
type Notifier struct {
	timeout time.Duration
}

func NewNotifier() *Notifier {
	return &Notifier{timeout: 2 * time.Second}
}

// Send transmits the emotion code (0..4) as a decimal ASCII payload.
func (n *Notifier) Send(host string, port, emotion int) error {
	if emotion < 0 || emotion > 4 {
		return fmt.Errorf("emotion code out of range: %d", emotion)
	}
	if port == 0 {
		port = DefaultPort
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	conn, err := net.DialTimeout("udp", addr, n.timeout)
	if err != nil {
		return fmt.Errorf("failed to dial display at %s: %w", addr, err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(strconv.Itoa(emotion))); err != nil {
		return fmt.Errorf("failed to send emotion to display: %w", err)
	}

	return nil
}
