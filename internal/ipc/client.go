package ipc

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"time"

	"github.com/1broseidon/dextop/internal/runtimepath"
)

// Client handles IPC communication with a running dextop host
type Client struct {
	socketPath string
	timeout    time.Duration
}

// NewClient creates a new IPC client
func NewClient() *Client {
	socketPath, err := runtimepath.SocketPath()
	if err != nil {
		// Keep constructor non-failing; sendRequest surfaces connection errors.
		socketPath = ""
	}

	return &Client{
		socketPath: socketPath,
		timeout:    5 * time.Second,
	}
}

// sendRequest sends a request and waits for a response
func (c *Client) sendRequest(req *Request) (*Response, error) {
	conn, err := net.DialTimeout("unix", c.socketPath, c.timeout)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to dextop: %w (is a host running?)", err)
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	reqData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	reqData = append(reqData, '\n')
	if _, err := conn.Write(reqData); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var resp Response
	if err := json.Unmarshal(respData, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if resp.Status == "ERROR" {
		return nil, fmt.Errorf("dextop error: %s", resp.Error)
	}

	return &resp, nil
}

func (c *Client) call(cmd CommandType, payload any, out any) error {
	req := &Request{Command: cmd}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal %s payload: %w", cmd, err)
		}
		req.Payload = data
	}

	resp, err := c.sendRequest(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Data, out); err != nil {
		return fmt.Errorf("failed to parse %s data: %w", cmd, err)
	}
	return nil
}

// GetStatus retrieves host status
func (c *Client) GetStatus() (*StatusData, error) {
	var status StatusData
	if err := c.call(CommandGetStatus, nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// ListWindows retrieves every window in stacking order, bottom first.
func (c *Client) ListWindows() ([]WindowInfo, error) {
	var data WindowsData
	if err := c.call(CommandListWindows, nil, &data); err != nil {
		return nil, err
	}
	return data.Windows, nil
}

// MoveWindow drags the window's toolbar by (dx, dy) and returns the result.
func (c *Client) MoveWindow(id string, dx, dy int) (*WindowInfo, error) {
	var info WindowInfo
	if err := c.call(CommandMoveWindow, MoveWindowPayload{ID: id, DX: dx, DY: dy}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// ResizeWindow drags the window's resizer by (dw, dh) and returns the result.
func (c *Client) ResizeWindow(id string, dw, dh int) (*WindowInfo, error) {
	var info WindowInfo
	if err := c.call(CommandResizeWindow, ResizeWindowPayload{ID: id, DW: dw, DH: dh}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// SetViewport changes the surface bounds of the running host.
func (c *Client) SetViewport(width, height int) error {
	return c.call(CommandSetViewport, SetViewportPayload{Width: width, Height: height}, nil)
}

// Ping checks if the host is responding
func (c *Client) Ping() error {
	_, err := c.GetStatus()
	return err
}
