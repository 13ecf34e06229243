package viiper_test

import (
	"context"
	"errors"
	"testing"

	"github.com/gkospad/gkospad/internal/viiper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient answers from responses, keyed by the unfilled path pattern.
func testClient(responses map[string]string, err error) *viiper.Client {
	return viiper.WithTransport(viiper.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		if err != nil {
			return "", err
		}
		return responses[path], nil
	}))
}

func TestClient(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name      string
		responses map[string]string
		err       error
		call      func(c *viiper.Client) (any, error)
		want      any
		wantErr   string
	}{
		{
			name:      "ping",
			responses: map[string]string{"ping": `{"server":"VIIPER","version":"0.4.0"}`},
			call:      func(c *viiper.Client) (any, error) { return c.Ping(ctx) },
			want:      &viiper.PingResponse{Server: "VIIPER", Version: "0.4.0"},
		},
		{
			name:      "bus list",
			responses: map[string]string{"bus/list": `{"buses":[1,3]}`},
			call:      func(c *viiper.Client) (any, error) { return c.BusList(ctx) },
			want:      &viiper.BusListResponse{Buses: []uint32{1, 3}},
		},
		{
			name:      "bus create",
			responses: map[string]string{"bus/create": `{"busId":42}`},
			call:      func(c *viiper.Client) (any, error) { return c.BusCreate(ctx, 42) },
			want:      &viiper.BusCreateResponse{BusID: 42},
		},
		{
			name:      "bus remove",
			responses: map[string]string{"bus/remove": `{"busId":42}`},
			call:      func(c *viiper.Client) (any, error) { return c.BusRemove(ctx, 42) },
			want:      &viiper.BusRemoveResponse{BusID: 42},
		},
		{
			name:      "device add",
			responses: map[string]string{"bus/{id}/add": `{"busId":1,"devId":"2","vid":"0x2e8a","pid":"0x0010","type":"keyboard"}`},
			call:      func(c *viiper.Client) (any, error) { return c.DeviceAdd(ctx, 1, viiper.DeviceTypeKeyboard) },
			want:      &viiper.Device{BusID: 1, DevId: "2", Vid: "0x2e8a", Pid: "0x0010", Type: "keyboard"},
		},
		{
			name:      "device remove",
			responses: map[string]string{"bus/{id}/remove": `{"busId":1,"devId":"2"}`},
			call:      func(c *viiper.Client) (any, error) { return c.DeviceRemove(ctx, 1, "2") },
			want:      &viiper.DeviceRemoveResponse{BusID: 1, DevId: "2"},
		},
		{
			name:      "devices list",
			responses: map[string]string{"bus/{id}/list": `{"devices":[]}`},
			call:      func(c *viiper.Client) (any, error) { return c.DevicesList(ctx, 1) },
			want:      &viiper.DevicesListResponse{Devices: []viiper.Device{}},
		},
		{
			name:      "problem response",
			responses: map[string]string{"bus/create": `{"status":409,"title":"Conflict","detail":"bus 42 already exists"}`},
			call:      func(c *viiper.Client) (any, error) { return c.BusCreate(ctx, 42) },
			wantErr:   "409 Conflict: bus 42 already exists",
		},
		{
			name:    "empty response",
			call:    func(c *viiper.Client) (any, error) { return c.BusList(ctx) },
			wantErr: "empty response",
		},
		{
			name:      "unknown field",
			responses: map[string]string{"bus/list": `{"buses":[],"extra":true}`},
			call:      func(c *viiper.Client) (any, error) { return c.BusList(ctx) },
			wantErr:   "decode:",
		},
		{
			name:    "transport failure",
			err:     errors.New("dial fail"),
			call:    func(c *viiper.Client) (any, error) { return c.Ping(ctx) },
			wantErr: "dial fail",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.call(testClient(tt.responses, tt.err))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_ProblemIsApiError(t *testing.T) {
	c := testClient(map[string]string{"bus/{id}/add": `{"status":404,"title":"Not Found","detail":"bus 9 not found"}`}, nil)
	_, err := c.DeviceAdd(context.Background(), 9, viiper.DeviceTypeKeyboard)
	var apiErr *viiper.ApiError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Status)
}

func TestDeviceAdd_Request(t *testing.T) {
	var gotPayload any
	var gotParams map[string]string
	c := viiper.WithTransport(viiper.NewMockTransport(func(path string, payload any, params map[string]string) (string, error) {
		gotPayload, gotParams = payload, params
		return `{"busId":5,"devId":"1","vid":"","pid":"","type":"keyboard"}`, nil
	}))
	_, err := c.DeviceAdd(context.Background(), 5, viiper.DeviceTypeKeyboard)
	require.NoError(t, err)

	req, ok := gotPayload.(viiper.DeviceCreateRequest)
	require.True(t, ok)
	require.NotNil(t, req.Type)
	assert.Equal(t, "keyboard", *req.Type)
	assert.Equal(t, map[string]string{"id": "5"}, gotParams)
}

func TestOpenStream_NotSupportedWithMockTransport(t *testing.T) {
	_, err := testClient(nil, nil).OpenStream(context.Background(), 1, "1")
	assert.ErrorContains(t, err, "not supported with mock transport")
}

func TestAttachKeyboard_RemovesDeviceWhenStreamFails(t *testing.T) {
	var calls []string
	c := viiper.WithTransport(viiper.NewMockTransport(func(path string, _ any, _ map[string]string) (string, error) {
		calls = append(calls, path)
		switch path {
		case "bus/list":
			return `{"buses":[7]}`, nil
		case "bus/{id}/add":
			return `{"busId":7,"devId":"3","vid":"","pid":"","type":"keyboard"}`, nil
		case "bus/{id}/remove":
			return `{"busId":7,"devId":"3"}`, nil
		}
		return "", nil
	}))
	_, err := c.AttachKeyboard(context.Background(), 0, nil)
	assert.ErrorContains(t, err, "open keyboard stream")
	assert.Equal(t, []string{"bus/list", "bus/{id}/add", "bus/{id}/remove"}, calls)
}

func TestApiError_Error(t *testing.T) {
	assert.Equal(t, "unknown error", viiper.ApiError{}.Error())
	assert.Equal(t, "Oops: detail", viiper.ApiError{Title: "Oops", Detail: "detail"}.Error())
	assert.Equal(t, "500 Internal Server Error: x", viiper.ApiError{Status: 500, Title: "Internal Server Error", Detail: "x"}.Error())
}
