// internal/protocol/frames.go
package protocol

import (
	"encoding/json"
	"fmt"
)

// ClientFrame is one inbound socket packet. The auth token rides on every
// frame; the server never echoes it back.
type ClientFrame struct {
	GameID    string  `json:"game_id"`
	PlayerID  string  `json:"player_id"`
	AuthToken string  `json:"auth_token"`
	Message   Message `json:"-"`
}

// ServerFrame is one outbound broadcast packet. PlayerID identifies the
// originating actor where one exists.
type ServerFrame struct {
	GameID   string  `json:"game_id"`
	PlayerID string  `json:"player_id,omitempty"`
	Message  Message `json:"-"`
}

type clientFrameWire struct {
	GameID    string          `json:"game_id"`
	PlayerID  string          `json:"player_id"`
	AuthToken string          `json:"auth_token"`
	Message   json.RawMessage `json:"message"`
}

type serverFrameWire struct {
	GameID   string          `json:"game_id"`
	PlayerID string          `json:"player_id,omitempty"`
	Message  json.RawMessage `json:"message"`
}

func (f ClientFrame) MarshalJSON() ([]byte, error) {
	msg, err := Marshal(f.Message)
	if err != nil {
		return nil, err
	}
	return json.Marshal(clientFrameWire{
		GameID:    f.GameID,
		PlayerID:  f.PlayerID,
		AuthToken: f.AuthToken,
		Message:   msg,
	})
}

func (f *ClientFrame) UnmarshalJSON(data []byte) error {
	var wire clientFrameWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("invalid client frame: %w", err)
	}
	if len(wire.Message) == 0 {
		return fmt.Errorf("client frame missing message")
	}
	msg, err := Unmarshal(wire.Message)
	if err != nil {
		return err
	}
	f.GameID = wire.GameID
	f.PlayerID = wire.PlayerID
	f.AuthToken = wire.AuthToken
	f.Message = msg
	return nil
}

func (f ServerFrame) MarshalJSON() ([]byte, error) {
	msg, err := Marshal(f.Message)
	if err != nil {
		return nil, err
	}
	return json.Marshal(serverFrameWire{
		GameID:   f.GameID,
		PlayerID: f.PlayerID,
		Message:  msg,
	})
}

func (f *ServerFrame) UnmarshalJSON(data []byte) error {
	var wire serverFrameWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("invalid server frame: %w", err)
	}
	if len(wire.Message) == 0 {
		return fmt.Errorf("server frame missing message")
	}
	msg, err := Unmarshal(wire.Message)
	if err != nil {
		return err
	}
	f.GameID = wire.GameID
	f.PlayerID = wire.PlayerID
	f.Message = msg
	return nil
}
