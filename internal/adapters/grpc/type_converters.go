package grpc

import (
	"fmt"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"google.golang.org/protobuf/types/known/structpb"
)

// Conversion helpers for application DTO <-> Struct message boundary

// DeficitToStruct converts a deficit view into its wire document
func DeficitToStruct(r *queries.GetDeficitResponse) (*structpb.Struct, error) {
	items := make([]interface{}, 0, len(r.Items))
	for _, item := range r.Items {
		items = append(items, map[string]interface{}{
			"item":    item.Item,
			"label":   item.Label,
			"missing": item.Missing,
		})
	}

	computedAt := ""
	if !r.ComputedAt.IsZero() {
		computedAt = r.ComputedAt.UTC().Format(time.RFC3339Nano)
	}

	return structpb.NewStruct(map[string]interface{}{
		"goal_id":     r.GoalID,
		"goal_label":  r.GoalLabel,
		"mode":        r.Mode,
		"computed_at": computedAt,
		"items":       items,
		"total":       r.Total,
	})
}

// DeficitFromStruct converts a wire document back into a deficit view
func DeficitFromStruct(s *structpb.Struct) (*queries.GetDeficitResponse, error) {
	fields := s.GetFields()
	resp := &queries.GetDeficitResponse{
		GoalID:    fields["goal_id"].GetStringValue(),
		GoalLabel: fields["goal_label"].GetStringValue(),
		Mode:      fields["mode"].GetStringValue(),
		Total:     int(fields["total"].GetNumberValue()),
	}

	if raw := fields["computed_at"].GetStringValue(); raw != "" {
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return nil, fmt.Errorf("invalid computed_at: %w", err)
		}
		resp.ComputedAt = t
	}

	for _, v := range fields["items"].GetListValue().GetValues() {
		item := v.GetStructValue().GetFields()
		resp.Items = append(resp.Items, queries.DeficitItemDTO{
			Item:    item["item"].GetStringValue(),
			Label:   item["label"].GetStringValue(),
			Missing: int(item["missing"].GetNumberValue()),
		})
	}

	return resp, nil
}

// PresetsToStruct converts a preset listing into its wire document
func PresetsToStruct(r *queries.ListPresetsResponse) (*structpb.Struct, error) {
	presets := make([]interface{}, 0, len(r.Presets))
	for _, p := range r.Presets {
		targets := make([]interface{}, 0, len(p.Targets))
		for _, t := range p.Targets {
			targets = append(targets, map[string]interface{}{
				"item":  string(t.Item),
				"count": t.Count,
			})
		}
		presets = append(presets, map[string]interface{}{
			"id":       p.ID,
			"label":    p.Label,
			"selected": p.Selected,
			"targets":  targets,
		})
	}
	return structpb.NewStruct(map[string]interface{}{"presets": presets})
}

// PresetsFromStruct converts a wire document back into a preset listing
func PresetsFromStruct(s *structpb.Struct) *queries.ListPresetsResponse {
	resp := &queries.ListPresetsResponse{}
	for _, v := range s.GetFields()["presets"].GetListValue().GetValues() {
		fields := v.GetStructValue().GetFields()
		preset := queries.PresetDTO{
			ID:       fields["id"].GetStringValue(),
			Label:    fields["label"].GetStringValue(),
			Selected: fields["selected"].GetBoolValue(),
		}
		for _, t := range fields["targets"].GetListValue().GetValues() {
			target := t.GetStructValue().GetFields()
			preset.Targets = append(preset.Targets, goods.NewThingCount(
				goods.ItemType(target["item"].GetStringValue()),
				int(target["count"].GetNumberValue()),
			))
		}
		resp.Presets = append(resp.Presets, preset)
	}
	return resp
}

// SwitchToStruct converts a switch result into its wire document
func SwitchToStruct(r *commands.SwitchGoalResponse) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"goal_id":     r.GoalID,
		"label":       r.Label,
		"outstanding": r.Outstanding,
	})
}

// SwitchFromStruct converts a wire document back into a switch result
func SwitchFromStruct(s *structpb.Struct) *commands.SwitchGoalResponse {
	fields := s.GetFields()
	return &commands.SwitchGoalResponse{
		GoalID:      fields["goal_id"].GetStringValue(),
		Label:       fields["label"].GetStringValue(),
		Outstanding: int(fields["outstanding"].GetNumberValue()),
	}
}
