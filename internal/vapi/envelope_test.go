package vapi

import (
	"encoding/json"
	"testing"
)

func TestParseToolCall(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantID   string
		wantName string
		wantArgs string
		wantErr  bool
	}{
		{
			name:     "toolCallList with object arguments",
			body:     `{"message":{"toolCallList":[{"id":"call_1","function":{"name":"createOrder","arguments":{"orderType":"sur_place"}}}]}}`,
			wantID:   "call_1",
			wantName: "createOrder",
			wantArgs: `{"orderType":"sur_place"}`,
		},
		{
			name:     "toolCalls with string arguments",
			body:     `{"message":{"toolCalls":[{"id":"call_2","function":{"name":"createOrder","arguments":"{\"notes\":\"vite\"}"}}]}}`,
			wantID:   "call_2",
			wantName: "createOrder",
			wantArgs: `{"notes":"vite"}`,
		},
		{
			name:     "toolWithToolCallList",
			body:     `{"message":{"toolWithToolCallList":[{"name":"getMenu","toolCall":{"id":"call_3","function":{"name":"getMenu"}}}]}}`,
			wantID:   "call_3",
			wantName: "getMenu",
			wantArgs: `{}`,
		},
		{
			name:     "legacy functionCall with parameters",
			body:     `{"message":{"functionCall":{"name":"createOrder","parameters":{"customerName":"Amine"}}}}`,
			wantID:   UnknownCallID,
			wantName: "createOrder",
			wantArgs: `{"customerName":"Amine"}`,
		},
		{
			name:     "legacy functionCall with top-level toolCallId",
			body:     `{"toolCallId":"call_4","message":{"functionCall":{"name":"getMenu"}}}`,
			wantID:   "call_4",
			wantName: "getMenu",
			wantArgs: `{}`,
		},
		{
			name:     "top-level toolCall",
			body:     `{"toolCall":{"id":"call_5","function":{"name":"getMenu","arguments":{}}}}`,
			wantID:   "call_5",
			wantName: "getMenu",
			wantArgs: `{}`,
		},
		{
			name:     "top-level functionCall",
			body:     `{"functionCall":{"name":"createOrder","arguments":{"items":[]}}}`,
			wantID:   UnknownCallID,
			wantName: "createOrder",
			wantArgs: `{"items":[]}`,
		},
		{
			name:     "first toolCallList entry wins over later shapes",
			body:     `{"message":{"toolCallList":[{"id":"first"},{"id":"second"}],"toolCalls":[{"id":"other"}]}}`,
			wantID:   "first",
			wantArgs: `{}`,
		},
		{
			name:     "only toolCallId",
			body:     `{"toolCallId":"call_6"}`,
			wantID:   "call_6",
			wantArgs: `{}`,
		},
		{
			name:     "empty body",
			body:     ``,
			wantID:   UnknownCallID,
			wantArgs: `{}`,
		},
		{
			name:    "malformed json",
			body:    `{"message":`,
			wantID:  UnknownCallID,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			call, err := ParseToolCall([]byte(tt.body))

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseToolCall() error = %v, wantErr %v", err, tt.wantErr)
			}
			if call.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", call.ID, tt.wantID)
			}
			if tt.wantErr {
				return
			}
			if call.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", call.Name, tt.wantName)
			}
			if string(call.Arguments) != tt.wantArgs {
				t.Errorf("Arguments = %s, want %s", call.Arguments, tt.wantArgs)
			}
		})
	}
}

func TestDecodeOrderArguments(t *testing.T) {
	call := ToolCall{Arguments: json.RawMessage(`{
		"orderType": "sur_place",
		"tableNumber": "12",
		"items": [{"name": "Chorba", "quantity": 2}, {"name": "Thé", "quantity": "3"}, {"name": "Pain"}],
		"notes": "sans oignons"
	}`)}

	args, err := call.DecodeOrderArguments()
	if err != nil {
		t.Fatalf("DecodeOrderArguments() error = %v", err)
	}
	if args.TableNumber != 12 {
		t.Errorf("TableNumber = %d, want 12", args.TableNumber)
	}
	if len(args.Items) != 3 {
		t.Fatalf("Items = %+v", args.Items)
	}
	if args.Items[0].Quantity != 2 || args.Items[1].Quantity != 3 || args.Items[2].Quantity != 0 {
		t.Errorf("quantities = %d, %d, %d", args.Items[0].Quantity, args.Items[1].Quantity, args.Items[2].Quantity)
	}
}

func TestFlexInt(t *testing.T) {
	tests := []struct {
		input   string
		want    FlexInt
		wantErr bool
	}{
		{`7`, 7, false},
		{`7.0`, 7, false},
		{`"7"`, 7, false},
		{`" 4 "`, 4, false},
		{`""`, 0, false},
		{`null`, 0, false},
		{`"sept"`, 0, true},
		{`true`, 0, true},
		{`2147483647`, 2147483647, false},
		{`1e30`, 0, true},
		{`"-1e12"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var got FlexInt
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestRespond(t *testing.T) {
	body, err := json.Marshal(Respond("call_9", "ok"))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	want := `{"results":[{"toolCallId":"call_9","result":"ok"}]}`
	if string(body) != want {
		t.Errorf("Respond() = %s, want %s", body, want)
	}

	if got := Respond("", "x").Results[0].ToolCallID; got != UnknownCallID {
		t.Errorf("empty call id = %q, want %q", got, UnknownCallID)
	}
}
