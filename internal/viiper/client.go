package viiper

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Client wraps a Transport with typed API calls.
type Client struct{ transport *Transport }

// New returns a client for the server at addr.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig returns a client using cfg for timeouts and authentication.
func NewWithConfig(addr string, cfg *Config) (*Client, error) {
	t, err := NewTransportWithConfig(addr, cfg)
	if err != nil {
		return nil, err
	}
	return &Client{transport: t}, nil
}

// WithTransport returns a client using t.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Ping returns the identity and version of the server.
func (c *Client) Ping(ctx context.Context) (*PingResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "ping", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[PingResponse](raw)
}

// BusList lists the active virtual buses.
func (c *Client) BusList(ctx context.Context) (*BusListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/list", nil, nil)
	if err != nil {
		return nil, err
	}
	return parse[BusListResponse](raw)
}

// BusCreate creates bus busID; 0 lets the server pick the number.
func (c *Client) BusCreate(ctx context.Context, busID uint32) (*BusCreateResponse, error) {
	var payload any
	if busID != 0 {
		payload = fmt.Sprintf("%d", busID)
	}
	raw, err := c.transport.DoCtx(ctx, "bus/create", payload, nil)
	if err != nil {
		return nil, err
	}
	return parse[BusCreateResponse](raw)
}

// BusRemove removes a bus together with its devices.
func (c *Client) BusRemove(ctx context.Context, busID uint32) (*BusRemoveResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/remove", fmt.Sprintf("%d", busID), nil)
	if err != nil {
		return nil, err
	}
	return parse[BusRemoveResponse](raw)
}

// DeviceAdd attaches a device of devType to the bus.
func (c *Client) DeviceAdd(ctx context.Context, busID uint32, devType string) (*Device, error) {
	req := DeviceCreateRequest{Type: &devType}
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/add", req, busParams(busID))
	if err != nil {
		return nil, err
	}
	return parse[Device](raw)
}

// DeviceRemove detaches device devID from the bus.
func (c *Client) DeviceRemove(ctx context.Context, busID uint32, devID string) (*DeviceRemoveResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/remove", devID, busParams(busID))
	if err != nil {
		return nil, err
	}
	return parse[DeviceRemoveResponse](raw)
}

// DevicesList lists the devices of a bus.
func (c *Client) DevicesList(ctx context.Context, busID uint32) (*DevicesListResponse, error) {
	raw, err := c.transport.DoCtx(ctx, "bus/{id}/list", nil, busParams(busID))
	if err != nil {
		return nil, err
	}
	return parse[DevicesListResponse](raw)
}

func busParams(busID uint32) map[string]string {
	return map[string]string{"id": fmt.Sprintf("%d", busID)}
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	var problem ApiError
	if err := json.Unmarshal([]byte(data), &problem); err == nil && (problem.Status != 0 || problem.Title != "") {
		return nil, &problem
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
