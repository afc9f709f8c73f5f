package vapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// UnknownCallID is echoed back when a payload carries no call identifier.
const UnknownCallID = "call_unknown"

// ToolCall is the normalized form of every envelope shape the voice platform has sent.
type ToolCall struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

type rawFunction struct {
	Name       string          `json:"name"`
	Arguments  json.RawMessage `json:"arguments"`
	Parameters json.RawMessage `json:"parameters"`
}

type rawToolCall struct {
	ID       string       `json:"id"`
	Function *rawFunction `json:"function"`
}

type rawEnvelope struct {
	Message *struct {
		ToolCallList         []rawToolCall `json:"toolCallList"`
		ToolCalls            []rawToolCall `json:"toolCalls"`
		ToolWithToolCallList []struct {
			ToolCall *rawToolCall `json:"toolCall"`
		} `json:"toolWithToolCallList"`
		FunctionCall *rawFunction `json:"functionCall"`
	} `json:"message"`
	ToolCall     *rawToolCall `json:"toolCall"`
	FunctionCall *rawFunction `json:"functionCall"`
	ToolCallID   string       `json:"toolCallId"`
}

// ParseToolCall decodes a webhook body. Shapes are tried in order:
// message.toolCallList, message.toolCalls, message.toolWithToolCallList,
// message.functionCall, then the top-level toolCall and functionCall.
// The returned call always has an ID, even when err is non-nil.
func ParseToolCall(body []byte) (ToolCall, error) {
	call := ToolCall{ID: UnknownCallID, Arguments: json.RawMessage("{}")}

	var env rawEnvelope
	if len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, &env); err != nil {
			return call, fmt.Errorf("decode tool call envelope: %w", err)
		}
	}

	var tc *rawToolCall
	var fn *rawFunction
	if m := env.Message; m != nil {
		switch {
		case len(m.ToolCallList) > 0:
			tc = &m.ToolCallList[0]
		case len(m.ToolCalls) > 0:
			tc = &m.ToolCalls[0]
		case len(m.ToolWithToolCallList) > 0 && m.ToolWithToolCallList[0].ToolCall != nil:
			tc = m.ToolWithToolCallList[0].ToolCall
		case m.FunctionCall != nil:
			fn = m.FunctionCall
		}
	}
	if tc == nil && fn == nil {
		switch {
		case env.ToolCall != nil:
			tc = env.ToolCall
		case env.FunctionCall != nil:
			fn = env.FunctionCall
		}
	}

	if tc != nil {
		if tc.ID != "" {
			call.ID = tc.ID
		}
		fn = tc.Function
	}
	if call.ID == UnknownCallID && env.ToolCallID != "" {
		call.ID = env.ToolCallID
	}
	if fn == nil {
		return call, nil
	}

	call.Name = fn.Name
	args, err := normalizeArguments(fn.Arguments, fn.Parameters)
	if err != nil {
		return call, err
	}
	call.Arguments = args
	return call, nil
}

// normalizeArguments unwraps arguments sent as a JSON-encoded string.
func normalizeArguments(candidates ...json.RawMessage) (json.RawMessage, error) {
	for _, raw := range candidates {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			continue
		}
		if raw[0] != '"' {
			return raw, nil
		}
		var encoded string
		if err := json.Unmarshal(raw, &encoded); err != nil {
			return nil, fmt.Errorf("decode tool call arguments: %w", err)
		}
		if strings.TrimSpace(encoded) == "" {
			continue
		}
		return json.RawMessage(encoded), nil
	}
	return json.RawMessage("{}"), nil
}

// OrderArguments are the parameters of the createOrder function.
type OrderArguments struct {
	OrderType     string          `json:"orderType"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	TableNumber   FlexInt         `json:"tableNumber"`
	Items         []RequestedItem `json:"items"`
	Notes         string          `json:"notes"`
}

// RequestedItem is an item named by the caller. It carries no trusted price.
type RequestedItem struct {
	Name     string  `json:"name"`
	Quantity FlexInt `json:"quantity"`
}

// DecodeOrderArguments parses the arguments of a createOrder call.
func (c ToolCall) DecodeOrderArguments() (OrderArguments, error) {
	var args OrderArguments
	if err := json.Unmarshal(c.Arguments, &args); err != nil {
		return args, fmt.Errorf("decode order arguments: %w", err)
	}
	return args, nil
}

// FlexInt accepts a JSON number, a numeric string or null. Absent values decode to 0.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}

	text := string(data)
	if data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			*f = 0
			return nil
		}
	}

	n, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return fmt.Errorf("invalid integer %q", text)
	}
	n = math.Round(n)
	if n < math.MinInt32 || n > math.MaxInt32 {
		return fmt.Errorf("invalid integer %q", text)
	}
	*f = FlexInt(n)
	return nil
}

// ToolResponse is the only body shape the voice platform accepts from a tool webhook.
type ToolResponse struct {
	Results []ToolResult `json:"results"`
}

type ToolResult struct {
	ToolCallID string `json:"toolCallId"`
	Result     string `json:"result"`
}

// Respond wraps a sentence in the tool-result envelope for callID.
func Respond(callID, result string) ToolResponse {
	if callID == "" {
		callID = UnknownCallID
	}
	return ToolResponse{Results: []ToolResult{{ToolCallID: callID, Result: result}}}
}
