package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to a remote agent.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for the agent at baseURL. A zero timeout means
// no timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the agent's base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// Card fetches the agent card.
func (c *Client) Card(ctx context.Context) (*AgentCard, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+CardPath, nil)
	if err != nil {
		return nil, fmt.Errorf("build card request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch agent card: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch agent card: unexpected status %d", resp.StatusCode)
	}

	var card AgentCard
	if err := json.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("decode agent card: %w", err)
	}
	return &card, nil
}

// Send delivers msg and returns the agent's reply. Missing message IDs and
// kinds are filled in. JSON-RPC failures are returned as *RPCError.
func (c *Client) Send(ctx context.Context, msg Message) (*Message, error) {
	if msg.Kind == "" {
		msg.Kind = "message"
	}
	if msg.Role == "" {
		msg.Role = RoleUser
	}
	if msg.MessageID == "" {
		msg.MessageID = uuid.NewString()
	}

	params, err := json.Marshal(SendParams{Message: msg})
	if err != nil {
		return nil, fmt.Errorf("encode params: %w", err)
	}
	id, _ := json.Marshal(uuid.NewString())
	body, err := json.Marshal(Request{JSONRPC: JSONRPCVersion, ID: id, Method: MethodSendMessage, Params: params})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send message: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("send message: unexpected status %d", resp.StatusCode)
	}

	var rpcResp Response
	if err := json.NewDecoder(resp.Body).Decode(&rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}

	var reply Message
	if err := json.Unmarshal(rpcResp.Result, &reply); err != nil {
		return nil, fmt.Errorf("decode reply: %w", err)
	}
	return &reply, nil
}

// Invoke calls skill with args in the given conversation.
func (c *Client) Invoke(ctx context.Context, contextID, skill string, args map[string]any) (*Message, error) {
	data := map[string]any{"skill": skill}
	if len(args) > 0 {
		data["args"] = args
	}
	return c.Send(ctx, Message{ContextID: contextID, Parts: []Part{DataPart(data)}})
}

// Ask sends plain text, which the agent routes to its default skill.
func (c *Client) Ask(ctx context.Context, contextID, text string) (*Message, error) {
	return c.Send(ctx, Message{ContextID: contextID, Parts: []Part{TextPart(text)}})
}
