package grpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
)

// GoalClient calls a running daemon's GoalService
type GoalClient struct {
	conn *grpc.ClientConn
}

// NewGoalClient creates a client for address (host:port or unix:///path)
func NewGoalClient(address string) (*GoalClient, error) {
	target := address
	if socketPath, ok := strings.CutPrefix(address, "unix://"); ok {
		target = "unix:" + socketPath
	}

	conn, err := grpc.NewClient(target, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to daemon at %s: %w", address, err)
	}
	return &GoalClient{conn: conn}, nil
}

// Close closes the gRPC connection
func (c *GoalClient) Close() error {
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *GoalClient) invoke(ctx context.Context, method string, in map[string]interface{}) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(in)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, "/"+GoalServiceName+"/"+method, req, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetDeficit retrieves the active goal's deficit
func (c *GoalClient) GetDeficit(ctx context.Context, includeSatisfied bool) (*queries.GetDeficitResponse, error) {
	out, err := c.invoke(ctx, MethodGetDeficit, map[string]interface{}{"include_satisfied": includeSatisfied})
	if err != nil {
		return nil, fmt.Errorf("failed to get deficit: %w", err)
	}
	return DeficitFromStruct(out)
}

// SwitchGoal activates a preset on the daemon
func (c *GoalClient) SwitchGoal(ctx context.Context, presetID string) (*commands.SwitchGoalResponse, error) {
	out, err := c.invoke(ctx, MethodSwitchGoal, map[string]interface{}{"preset_id": presetID})
	if err != nil {
		return nil, fmt.Errorf("failed to switch goal: %w", err)
	}
	return SwitchFromStruct(out), nil
}

// ListPresets lists the daemon's presets
func (c *GoalClient) ListPresets(ctx context.Context, all bool) (*queries.ListPresetsResponse, error) {
	out, err := c.invoke(ctx, MethodListPresets, map[string]interface{}{"all": all})
	if err != nil {
		return nil, fmt.Errorf("failed to list presets: %w", err)
	}
	return PresetsFromStruct(out), nil
}
