package pixoo

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"pixoonair/internal/logger"
	"pixoonair/internal/models"
)

// DefaultDiscoveryURL is the vendor cloud endpoint that lists devices sharing
// the caller's public IP.
const DefaultDiscoveryURL = "https://app.divoom-gz.com/Device/ReturnSameLANDevice"

// Device commands understood by the local /post endpoint.
const (
	cmdPlayTFGif   = "Device/PlayTFGif"
	cmdSendRemote  = "Draw/SendRemote"
	cmdGetChannel  = "Channel/GetIndex"
	cmdSetChannel  = "Channel/SetIndex"
	fileTypeNetURL = 2 // FileType for Device/PlayTFGif: play from a URL
)

var (
	ErrUnknownChannel = errors.New("refusing to send unknown channel")
	ErrMissingField   = errors.New("missing field in reply")
)

// Client talks to the vendor discovery service and to devices on the LAN.
// Every call is one request; nothing is retried.
type Client struct {
	httpClient   *http.Client
	discoveryURL string
	log          *logger.Logger
}

// Option customizes a Client.
type Option func(*Client)

// WithDiscoveryURL overrides the discovery endpoint.
func WithDiscoveryURL(u string) Option {
	return func(c *Client) { c.discoveryURL = u }
}

// WithTimeout sets the per-request timeout; zero keeps the transport default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient builds a Client. log may be nil.
func NewClient(log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		httpClient:   &http.Client{},
		discoveryURL: DefaultDiscoveryURL,
		log:          log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type deviceListResponse struct {
	ReturnCode    *int          `json:"ReturnCode"`
	ReturnMessage string        `json:"ReturnMessage"`
	DeviceList    []deviceEntry `json:"DeviceList"`
}

type deviceEntry struct {
	DeviceName      string `json:"DeviceName"`
	DeviceID        uint64 `json:"DeviceId"`
	DevicePrivateIP string `json:"DevicePrivateIP"`
	DeviceMac       string `json:"DeviceMac"`
	Hardware        uint64 `json:"Hardware"`
}

type selectIndexResponse struct {
	SelectIndex *int `json:"SelectIndex"`
}

type errorCodeResponse struct {
	ErrorCode *int `json:"error_code"`
}

// DiscoverDevices lists the devices registered on the caller's LAN.
func (c *Client) DiscoverDevices(ctx context.Context) ([]models.Device, error) {
	const op = "discover devices"
	c.debug("pixoo_call", "op", op)

	var res deviceListResponse
	if err := c.post(ctx, op, c.discoveryURL, nil, &res); err != nil {
		return nil, err
	}
	if res.ReturnCode == nil {
		return nil, missingField(op, "ReturnCode")
	}
	if *res.ReturnCode != 0 {
		return nil, &VendorError{Op: op, Code: *res.ReturnCode, Message: res.ReturnMessage}
	}
	if res.DeviceList == nil {
		return nil, missingField(op, "DeviceList")
	}

	devices := make([]models.Device, 0, len(res.DeviceList))
	for _, d := range res.DeviceList {
		devices = append(devices, models.Device{
			DeviceID:        d.DeviceID,
			DeviceName:      d.DeviceName,
			DevicePrivateIP: d.DevicePrivateIP,
			DeviceMac:       d.DeviceMac,
			Hardware:        d.Hardware,
		})
	}
	return devices, nil
}

// GetChannel reads the active channel. Unrecognized codes map to
// models.ChannelUnknown without an error.
func (c *Client) GetChannel(ctx context.Context, ip string) (models.ChannelID, error) {
	const op = "get channel"
	c.debug("pixoo_call", "op", op, "ip", ip)

	var res selectIndexResponse
	if err := c.post(ctx, op, deviceURL(ip), map[string]any{"Command": cmdGetChannel}, &res); err != nil {
		return models.ChannelUnknown, err
	}
	if res.SelectIndex == nil {
		return models.ChannelUnknown, missingField(op, "SelectIndex")
	}
	return models.ChannelFromCode(*res.SelectIndex), nil
}

// SetChannel switches the device to ch.
func (c *Client) SetChannel(ctx context.Context, ip string, ch models.ChannelID) error {
	const op = "set channel"
	if !ch.Known() {
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownChannel, ch)
	}
	c.debug("pixoo_call", "op", op, "ip", ip, "channel", ch.String())
	return c.command(ctx, op, ip, map[string]any{
		"Command":     cmdSetChannel,
		"SelectIndex": int(ch),
	})
}

// PlayMediaByID plays a GIF from the vendor gallery by its file id.
func (c *Client) PlayMediaByID(ctx context.Context, ip, fileID string) error {
	const op = "play media by id"
	c.debug("pixoo_call", "op", op, "ip", ip, "file_id", fileID)
	return c.command(ctx, op, ip, map[string]any{
		"Command": cmdSendRemote,
		"FileId":  fileID,
	})
}

// PlayMediaByURL makes the device download and play a GIF from url.
func (c *Client) PlayMediaByURL(ctx context.Context, ip, url string) error {
	const op = "play media by url"
	c.debug("pixoo_call", "op", op, "ip", ip, "url", url)
	return c.command(ctx, op, ip, map[string]any{
		"Command":  cmdPlayTFGif,
		"FileType": fileTypeNetURL,
		"FileName": url,
	})
}

// command posts a device command whose reply only carries error_code.
func (c *Client) command(ctx context.Context, op, ip string, body map[string]any) error {
	var res errorCodeResponse
	if err := c.post(ctx, op, deviceURL(ip), body, &res); err != nil {
		return err
	}
	if res.ErrorCode == nil {
		return missingField(op, "error_code")
	}
	if *res.ErrorCode != 0 {
		return &VendorError{Op: op, Code: *res.ErrorCode}
	}
	return nil
}

func (c *Client) post(ctx context.Context, op, url string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Op: op, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ProtocolError{Op: op, Err: err}
	}
	return nil
}

func (c *Client) debug(msg string, kv ...interface{}) {
	if c.log != nil {
		c.log.Debugw(msg, kv...)
	}
}

// missingField reports a 2xx reply that decoded but lacks a required field.
func missingField(op, field string) error {
	return &ProtocolError{Op: op, Err: fmt.Errorf("%w: %s", ErrMissingField, field)}
}

func deviceURL(ip string) string {
	return "http://" + ip + "/post"
}
