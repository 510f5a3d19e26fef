package walletsdk

import (
	"context"
	"fmt"

	"walletlink/pkg/wallet"
)

// DeviceSession is a live, exclusive channel to an application running on
// the user's hardware device. It is only valid inside the function it was
// lent to; the bridge closes it when that function returns.
type DeviceSession struct {
	client  *Client
	appName string
}

// DeviceRunFunc runs against an open device session. The session stays open
// until the function returns and is released afterwards regardless of
// outcome.
type DeviceRunFunc func(ctx context.Context, dev *DeviceSession) error

// Exchange sends one APDU command to the device application and returns its
// reply.
//
// Reserved: the wire contract (device.exchange) is declared, but this
// client does not serve it yet.
func (d *DeviceSession) Exchange(ctx context.Context, command []byte) ([]byte, error) {
	return nil, fmt.Errorf("device exchange: %w", ErrNotImplemented)
}

// AppName returns the device application this session was opened against;
// empty for a dashboard session.
func (d *DeviceSession) AppName() string { return d.appName }

// BridgeApp opens the named device application, lends the session to fn,
// and closes it when fn returns.
//
// Reserved: the wire contract (device.open, device.exchange, device.close)
// is declared, but this client does not serve it yet.
func (c *Client) BridgeApp(ctx context.Context, appName string, fn DeviceRunFunc) error {
	return fmt.Errorf("bridge app: %w", ErrNotImplemented)
}

// BridgeDashboard opens the device dashboard, lends the session to fn, and
// closes it when fn returns.
//
// Reserved: see BridgeApp.
func (c *Client) BridgeDashboard(ctx context.Context, fn DeviceRunFunc) error {
	return fmt.Errorf("bridge dashboard: %w", ErrNotImplemented)
}

// GetDeviceInfo fetches the connected device's model and firmware version.
//
// Reserved: the wire contract (device.info) is declared, but this client
// does not serve it yet.
func (c *Client) GetDeviceInfo(ctx context.Context) (*wallet.DeviceDetails, error) {
	return nil, fmt.Errorf("get device info: %w", ErrNotImplemented)
}

// ListApps fetches the applications installed on the connected device.
//
// Reserved: the wire contract (device.apps) is declared, but this client
// does not serve it yet.
func (c *Client) ListApps(ctx context.Context) ([]wallet.ApplicationDetails, error) {
	return nil, fmt.Errorf("list apps: %w", ErrNotImplemented)
}
