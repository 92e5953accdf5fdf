package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/andrescamacho/goaltracker-go/internal/application/common"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
)

type handlers struct {
	mediator mediator.Mediator
}

// DeficitItem is one missing item
type DeficitItem struct {
	Item    string `json:"item"`
	Label   string `json:"label"`
	Missing int    `json:"missing"`
}

// DeficitResponse is the body of GET /api/deficit
type DeficitResponse struct {
	GoalID     string        `json:"goal_id"`
	GoalLabel  string        `json:"goal_label"`
	Mode       string        `json:"mode"`
	ComputedAt *time.Time    `json:"computed_at,omitempty"`
	Items      []DeficitItem `json:"items"`
	Total      int           `json:"total"`
}

// Target is one goal target
type Target struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Preset is one selectable goal
type Preset struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Selected bool     `json:"selected"`
	Targets  []Target `json:"targets"`
}

// SwitchGoalRequest is the body of POST /api/goal
type SwitchGoalRequest struct {
	Preset string `json:"preset"`
}

// SwitchGoalResponse is the reply to POST /api/goal
type SwitchGoalResponse struct {
	GoalID      string `json:"goal_id"`
	Label       string `json:"label"`
	Outstanding int    `json:"outstanding"`
}

// BreakdownNode is one node of a material tree
type BreakdownNode struct {
	Item     string           `json:"item"`
	Kind     string           `json:"kind"`
	Recipe   string           `json:"recipe,omitempty"`
	Needed   int              `json:"needed"`
	OnHand   int              `json:"on_hand"`
	Missing  int              `json:"missing"`
	Children []*BreakdownNode `json:"children,omitempty"`
}

// BreakdownResponse is the body of GET /api/breakdown
type BreakdownResponse struct {
	GoalID   string           `json:"goal_id"`
	Roots    []*BreakdownNode `json:"roots"`
	Problems []string         `json:"problems,omitempty"`
}

// ErrorResponse carries an error message and an optional suggestion
type ErrorResponse struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion,omitempty"`
}

func (h *handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) getDeficit(w http.ResponseWriter, r *http.Request) {
	includeSatisfied, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	resp, err := h.mediator.Send(r.Context(), &queries.GetDeficitQuery{IncludeSatisfied: includeSatisfied})
	if err != nil {
		writeError(w, r, err)
		return
	}
	deficit := resp.(*queries.GetDeficitResponse)

	body := DeficitResponse{
		GoalID:    deficit.GoalID,
		GoalLabel: deficit.GoalLabel,
		Mode:      deficit.Mode,
		Items:     make([]DeficitItem, 0, len(deficit.Items)),
		Total:     deficit.Total,
	}
	if !deficit.ComputedAt.IsZero() {
		computedAt := deficit.ComputedAt
		body.ComputedAt = &computedAt
	}
	for _, item := range deficit.Items {
		body.Items = append(body.Items, DeficitItem{Item: item.Item, Label: item.Label, Missing: item.Missing})
	}

	writeJSON(w, http.StatusOK, body)
}

func (h *handlers) listPresets(w http.ResponseWriter, r *http.Request) {
	all, _ := strconv.ParseBool(r.URL.Query().Get("all"))

	resp, err := h.mediator.Send(r.Context(), &queries.ListPresetsQuery{All: all})
	if err != nil {
		writeError(w, r, err)
		return
	}

	presets := make([]Preset, 0)
	for _, p := range resp.(*queries.ListPresetsResponse).Presets {
		presets = append(presets, Preset{
			ID:       p.ID,
			Label:    p.Label,
			Selected: p.Selected,
			Targets:  toTargets(p.Targets),
		})
	}

	writeJSON(w, http.StatusOK, presets)
}

func (h *handlers) switchGoal(w http.ResponseWriter, r *http.Request) {
	var req SwitchGoalRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Preset == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "preset is required"})
		return
	}

	resp, err := h.mediator.Send(r.Context(), &commands.SwitchGoalCommand{PresetID: req.Preset})
	if err != nil {
		writeError(w, r, err)
		return
	}
	switched := resp.(*commands.SwitchGoalResponse)

	writeJSON(w, http.StatusOK, SwitchGoalResponse{
		GoalID:      switched.GoalID,
		Label:       switched.Label,
		Outstanding: switched.Outstanding,
	})
}

func (h *handlers) getBreakdown(w http.ResponseWriter, r *http.Request) {
	resp, err := h.mediator.Send(r.Context(), &queries.GetBreakdownQuery{PresetID: r.URL.Query().Get("preset")})
	if err != nil {
		writeError(w, r, err)
		return
	}
	breakdown := resp.(*queries.GetBreakdownResponse)

	body := BreakdownResponse{GoalID: breakdown.GoalID, Roots: make([]*BreakdownNode, 0, len(breakdown.Roots))}
	for _, root := range breakdown.Roots {
		body.Roots = append(body.Roots, toBreakdownNode(root))
	}
	for _, problem := range breakdown.Problems {
		body.Problems = append(body.Problems, problem.Error())
	}

	writeJSON(w, http.StatusOK, body)
}

func toTargets(counts []goods.ThingCount) []Target {
	targets := make([]Target, 0, len(counts))
	for _, c := range counts {
		targets = append(targets, Target{Item: string(c.Item), Count: c.Count})
	}
	return targets
}

func toBreakdownNode(n *goods.BreakdownNode) *BreakdownNode {
	node := &BreakdownNode{
		Item:    string(n.Item),
		Kind:    string(n.Kind),
		Recipe:  n.RecipeName,
		Needed:  n.Needed,
		OnHand:  n.OnHand,
		Missing: n.Missing(),
	}
	for _, child := range n.Children {
		node.Children = append(node.Children, toBreakdownNode(child))
	}
	return node
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps domain errors to status codes
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var unknown *goal.ErrUnknownPreset
	if errors.As(err, &unknown) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: unknown.Error(), Suggestion: unknown.Suggestion})
		return
	}

	common.LoggerFromContext(r.Context()).Log(common.LevelError, "API request failed", map[string]interface{}{
		"path":  r.URL.Path,
		"error": err.Error(),
	})
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
