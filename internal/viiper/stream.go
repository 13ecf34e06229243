package viiper

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

// ErrStreamClosed is returned by writes after Close.
var ErrStreamClosed = errors.New("stream closed")

// DeviceStream is the input channel of one attached device.
type DeviceStream struct {
	BusID uint32
	DevID string

	conn         net.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
}

// OpenStream connects to the stream of an existing device.
func (c *Client) OpenStream(ctx context.Context, busID uint32, devID string) (*DeviceStream, error) {
	if c.transport.mock != nil {
		return nil, errors.New("stream connections not supported with mock transport")
	}
	conn, err := c.transport.dial(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := conn.Write([]byte(fmt.Sprintf("bus/%d/%s\x00", busID, devID))); err != nil {
		conn.Close()
		return nil, fmt.Errorf("write stream path: %w", err)
	}
	return &DeviceStream{
		BusID:        busID,
		DevID:        devID,
		conn:         conn,
		writeTimeout: c.transport.cfg.WriteTimeout,
	}, nil
}

// WriteBinary marshals v and sends it as one message.
func (s *DeviceStream) WriteBinary(v encoding.BinaryMarshaler) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStreamClosed
	}
	if s.writeTimeout > 0 {
		_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
	}
	_, err = s.conn.Write(data)
	return err
}

// Close closes the stream. It is safe to call more than once.
func (s *DeviceStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}

// Keyboard is a virtual keyboard attached for the lifetime of a session.
type Keyboard struct {
	*DeviceStream
	Device  *Device
	client  *Client
	ownsBus bool
}

// AttachKeyboard adds a keyboard to busID and opens its stream. With busID
// 0 the first existing bus is used, or a new one is created.
func (c *Client) AttachKeyboard(ctx context.Context, busID uint32, logger *slog.Logger) (*Keyboard, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ownsBus := false
	if busID == 0 {
		list, err := c.BusList(ctx)
		if err != nil {
			return nil, fmt.Errorf("list buses: %w", err)
		}
		if len(list.Buses) > 0 {
			busID = list.Buses[0]
		} else {
			created, err := c.BusCreate(ctx, 0)
			if err != nil {
				return nil, fmt.Errorf("create bus: %w", err)
			}
			busID = created.BusID
			ownsBus = true
			logger.Info("Created virtual bus", "bus", busID)
		}
	}

	dev, err := c.DeviceAdd(ctx, busID, DeviceTypeKeyboard)
	if err != nil {
		return nil, fmt.Errorf("add keyboard: %w", err)
	}
	stream, err := c.OpenStream(ctx, busID, dev.DevId)
	if err != nil {
		if _, rerr := c.DeviceRemove(context.WithoutCancel(ctx), busID, dev.DevId); rerr != nil {
			logger.Warn("failed to remove keyboard", "bus", busID, "device", dev.DevId, "error", rerr)
		}
		return nil, fmt.Errorf("open keyboard stream: %w", err)
	}
	logger.Info("Attached virtual keyboard", "bus", busID, "device", dev.DevId, "vid", dev.Vid, "pid", dev.Pid)
	return &Keyboard{DeviceStream: stream, Device: dev, client: c, ownsBus: ownsBus}, nil
}

// Detach closes the stream and removes the keyboard, and the bus when
// AttachKeyboard created it.
func (k *Keyboard) Detach(ctx context.Context) error {
	errs := []error{k.Close()}
	if _, err := k.client.DeviceRemove(ctx, k.BusID, k.DevID); err != nil {
		errs = append(errs, fmt.Errorf("remove keyboard: %w", err))
	}
	if k.ownsBus {
		if _, err := k.client.BusRemove(ctx, k.BusID); err != nil {
			errs = append(errs, fmt.Errorf("remove bus: %w", err))
		}
	}
	return errors.Join(errs...)
}
