package server

import (
	"context"
	"fmt"

	"github.com/ChuLiYu/cpusched/pkg/types"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote Simulator service
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Simulate runs alg remotely and returns the run id with the report
func (c *Client) Simulate(ctx context.Context, alg types.Algorithm, tasks []types.Task, quantum int) (string, *types.Report, error) {
	in, err := encode(request{Algorithm: alg.String(), Quantum: quantum, Tasks: tasks})
	if err != nil {
		return "", nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, simulateMethod, in, out); err != nil {
		return "", nil, err
	}

	var resp simulateResponse
	if err := decode(out, &resp); err != nil {
		return "", nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.RunID, resp.Report, nil
}

// Compare runs algs remotely; an empty algs compares every algorithm
func (c *Client) Compare(ctx context.Context, algs []types.Algorithm, tasks []types.Task, quantum int) (string, []*types.Report, error) {
	names := make([]string, 0, len(algs))
	for _, alg := range algs {
		names = append(names, alg.String())
	}
	in, err := encode(request{Algorithms: names, Quantum: quantum, Tasks: tasks})
	if err != nil {
		return "", nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, compareMethod, in, out); err != nil {
		return "", nil, err
	}

	var resp compareResponse
	if err := decode(out, &resp); err != nil {
		return "", nil, fmt.Errorf("decode response: %w", err)
	}
	return resp.RunID, resp.Reports, nil
}
