package client

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"

	"github.com/invopop/jsonschema"
)

type schemaEntry struct {
	typ  string
	body any
}

var outgoingSchemas = []schemaEntry{
	{TypeHello, HelloMsg{}},
	{TypeJoin, JoinMsg{}},
	{TypeReady, ReadyMsg{}},
	{TypeInput, InputMsg{}},
	{TypeQuickChat, QuickChatMsg{}},
	{TypePing, PingMsg{}},
	{TypeCodeSubmit, CodeSubmitMsg{}},
}

var incomingSchemas = []schemaEntry{
	{TypeWelcome, wireWelcome{}},
	{TypeError, wireError{}},
	{TypeJoined, wireJoined{}},
	{TypeState, wireState{}},
	{TypeEvent, wireEvent{}},
}

// ProtocolSchema 两个方向全部消息的 JSON schema；每个子 schema 的 title 即 type 字段取值
func ProtocolSchema() (*jsonschema.Schema, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}
	group := func(title, desc string, entries []schemaEntry) (*jsonschema.Schema, error) {
		out := &jsonschema.Schema{Title: title, Description: desc}
		for _, e := range entries {
			s := reflector.ReflectFromType(reflect.TypeOf(e.body))
			if s == nil {
				return nil, fmt.Errorf("reflect %s schema", e.typ)
			}
			s.Version = ""
			s.Title = e.typ
			s.Description = fmt.Sprintf(`Payload of a {"type": %q} message; fields sit beside "type".`, e.typ)
			out.OneOf = append(out.OneOf, s)
		}
		return out, nil
	}

	up, err := group("Client to server", "Commands sent by the client.", outgoingSchemas)
	if err != nil {
		return nil, err
	}
	down, err := group("Server to client", "Messages the client understands.", incomingSchemas)
	if err != nil {
		return nil, err
	}
	return &jsonschema.Schema{
		Version:     jsonschema.Version,
		Title:       "Living Temple Protocol",
		Description: "JSON text frames exchanged over the game websocket.",
		OneOf:       []*jsonschema.Schema{up, down},
	}, nil
}

// WriteProtocolSchema 导出 schema 到文件
func WriteProtocolSchema(outPath string) error {
	schema, err := ProtocolSchema()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	data = append(data, '\n')
	if dir := filepath.Dir(outPath); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("write schema: %w", err)
	}
	return nil
}
