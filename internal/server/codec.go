package server

import (
	"encoding/json"
	"fmt"

	"github.com/ChuLiYu/cpusched/pkg/types"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

type request struct {
	Algorithm  string       `json:"algorithm,omitempty"`
	Algorithms []string     `json:"algorithms,omitempty"`
	Quantum    int          `json:"quantum,omitempty"`
	Tasks      []types.Task `json:"tasks"`
}

type simulateResponse struct {
	RunID  string        `json:"run_id"`
	Report *types.Report `json:"report"`
}

type compareResponse struct {
	RunID   string          `json:"run_id"`
	Reports []*types.Report `json:"reports"`
}

// decode converts a Struct message into v through its JSON form
func decode(in *structpb.Struct, v any) error {
	data, err := protojson.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal struct: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return err
	}
	return nil
}

// encode converts v into a Struct message through its JSON form
func encode(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, fmt.Errorf("unmarshal struct: %w", err)
	}
	return out, nil
}
