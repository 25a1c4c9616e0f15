// Package a2a implements the small slice of the agent-to-agent protocol the
// product agents speak: an agent card plus JSON-RPC 2.0 message/send over HTTP.
package a2a

import (
	"encoding/json"
	"strings"
)

// JSONRPCVersion is the only accepted protocol version.
const JSONRPCVersion = "2.0"

// MethodSendMessage sends one message and waits for the reply.
const MethodSendMessage = "message/send"

// CardPath is where agents publish their card.
const CardPath = "/.well-known/agent-card.json"

// RPC error codes
const (
	ParseError     = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

// Request represents a JSON-RPC 2.0 request.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response represents a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError represents a JSON-RPC 2.0 error.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// Roles of a message sender.
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Part kinds.
const (
	KindText = "text"
	KindData = "data"
)

// Part is one piece of message content.
type Part struct {
	Kind string `json:"kind"`
	Text string `json:"text,omitempty"`
	Data any    `json:"data,omitempty"`
}

// TextPart returns a text part.
func TextPart(s string) Part { return Part{Kind: KindText, Text: s} }

// DataPart returns a structured data part.
func DataPart(v any) Part { return Part{Kind: KindData, Data: v} }

// Message is a single conversational turn.
type Message struct {
	Kind      string `json:"kind"`
	Role      string `json:"role"`
	MessageID string `json:"messageId"`
	ContextID string `json:"contextId,omitempty"`
	Parts     []Part `json:"parts"`
}

// SendParams are the params of message/send.
type SendParams struct {
	Message Message `json:"message"`
}

// Text joins the message's text parts with newlines.
func (m Message) Text() string {
	var texts []string
	for _, p := range m.Parts {
		if p.Kind == KindText && p.Text != "" {
			texts = append(texts, p.Text)
		}
	}
	return strings.Join(texts, "\n")
}

// Data returns the first data part's payload.
func (m Message) Data() (any, bool) {
	for _, p := range m.Parts {
		if p.Kind == KindData {
			return p.Data, true
		}
	}
	return nil, false
}

// Invocation is an explicit skill call carried in a data part as
// {"skill": "...", "args": {...}}.
type Invocation struct {
	Skill string         `json:"skill"`
	Args  map[string]any `json:"args,omitempty"`
}

// Invocation returns the first data part that names a skill.
func (m Message) Invocation() (Invocation, bool) {
	for _, p := range m.Parts {
		if p.Kind != KindData {
			continue
		}
		data, ok := p.Data.(map[string]any)
		if !ok {
			continue
		}
		skill, _ := data["skill"].(string)
		if skill == "" {
			continue
		}
		inv := Invocation{Skill: skill}
		if args, ok := data["args"].(map[string]any); ok {
			inv.Args = args
		}
		return inv, true
	}
	return Invocation{}, false
}

// AgentCard describes an agent and its skills.
type AgentCard struct {
	Name               string       `json:"name"`
	Description        string       `json:"description"`
	URL                string       `json:"url"`
	Version            string       `json:"version"`
	ProtocolVersion    string       `json:"protocolVersion"`
	DefaultInputModes  []string     `json:"defaultInputModes"`
	DefaultOutputModes []string     `json:"defaultOutputModes"`
	Capabilities       Capabilities `json:"capabilities"`
	Skills             []Skill      `json:"skills"`
}

// Capabilities advertises optional protocol features.
type Capabilities struct {
	Streaming bool `json:"streaming"`
}

// Skill is one advertised capability of an agent.
type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}
