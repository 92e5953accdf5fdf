package grpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// goalServiceImpl implements GoalServiceServer on top of the mediator
type goalServiceImpl struct {
	mediator mediator.Mediator
}

func newGoalServiceImpl(m mediator.Mediator) *goalServiceImpl {
	return &goalServiceImpl{mediator: m}
}

// GetDeficit returns the active goal's last completed deficit
func (s *goalServiceImpl) GetDeficit(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	query := &queries.GetDeficitQuery{
		IncludeSatisfied: in.GetFields()["include_satisfied"].GetBoolValue(),
	}

	resp, err := s.mediator.Send(ctx, query)
	if err != nil {
		return nil, toStatus(err)
	}
	return DeficitToStruct(resp.(*queries.GetDeficitResponse))
}

// SwitchGoal activates a preset
func (s *goalServiceImpl) SwitchGoal(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	presetID := in.GetFields()["preset_id"].GetStringValue()
	if presetID == "" {
		return nil, status.Error(codes.InvalidArgument, "preset_id is required")
	}

	resp, err := s.mediator.Send(ctx, &commands.SwitchGoalCommand{PresetID: presetID})
	if err != nil {
		return nil, toStatus(err)
	}
	return SwitchToStruct(resp.(*commands.SwitchGoalResponse))
}

// ListPresets lists the selectable goals
func (s *goalServiceImpl) ListPresets(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	query := &queries.ListPresetsQuery{
		All: in.GetFields()["all"].GetBoolValue(),
	}

	resp, err := s.mediator.Send(ctx, query)
	if err != nil {
		return nil, toStatus(err)
	}
	return PresetsToStruct(resp.(*queries.ListPresetsResponse))
}

// toStatus maps domain errors to gRPC codes
func toStatus(err error) error {
	var unknown *goal.ErrUnknownPreset
	if errors.As(err, &unknown) {
		return status.Error(codes.NotFound, unknown.Error())
	}
	return status.Error(codes.Internal, fmt.Sprintf("%v", err))
}
