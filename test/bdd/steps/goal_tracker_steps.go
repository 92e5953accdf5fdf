package steps

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"

	"github.com/andrescamacho/goaltracker-go/internal/adapters/persistence"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/commands"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/queries"
	"github.com/andrescamacho/goaltracker-go/internal/application/goals/services"
	"github.com/andrescamacho/goaltracker-go/internal/application/mediator"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goal"
	"github.com/andrescamacho/goaltracker-go/internal/domain/goods"
	"github.com/andrescamacho/goaltracker-go/internal/domain/inventory"
	"github.com/andrescamacho/goaltracker-go/internal/domain/shared"
	"github.com/andrescamacho/goaltracker-go/test/helpers"
)

const bddInstance = "bdd"

type goalTrackerContext struct {
	// world description collected by Given steps
	items      map[goods.ItemType]*goods.ItemDef
	itemOrder  []goods.ItemType
	recipes    []*goods.Recipe
	presetDefs []goal.PresetDefinition
	snapshot   *inventory.Snapshot
	mode       services.AggregationMode
	persistent bool

	// assembled tracker
	mediator mediator.Mediator
	index    *services.RecipeIndex
	goals    *services.GoalRegistry
	world    *inventory.StaticSource

	switchResp  *commands.SwitchGoalResponse
	restoreResp *commands.RestoreStateResponse
	err         error
}

func (gc *goalTrackerContext) reset() {
	gc.items = make(map[goods.ItemType]*goods.ItemDef)
	gc.itemOrder = nil
	gc.recipes = nil
	gc.presetDefs = nil
	gc.snapshot = inventory.EmptySnapshot()
	gc.mode = services.ModeCompatible
	gc.persistent = false
	gc.mediator = nil
	gc.index = nil
	gc.goals = nil
	gc.world = nil
	gc.switchResp = nil
	gc.restoreResp = nil
	gc.err = nil
}

// item returns the definition for name, registering a bulk resource on first use
func (gc *goalTrackerContext) item(name string) *goods.ItemDef {
	t := goods.ItemType(name)
	if def, ok := gc.items[t]; ok {
		return def
	}
	def := &goods.ItemDef{Type: t, CountAsResource: true}
	gc.items[t] = def
	gc.itemOrder = append(gc.itemOrder, t)
	return def
}

// cellValue returns the value in row under the named header column
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	if len(table.Rows) == 0 {
		return ""
	}
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

// parseCounts reads an "item | count" table; "missing" is accepted for count
func parseCounts(table *godog.Table) ([]goods.ThingCount, error) {
	var counts []goods.ThingCount
	for i, row := range table.Rows {
		if i == 0 {
			continue // Skip header
		}
		item := cellValue(table, row, "item")
		if item == "" {
			return nil, fmt.Errorf("row %d: missing item", i)
		}

		raw := cellValue(table, row, "count")
		if raw == "" {
			raw = cellValue(table, row, "missing")
		}
		count, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid count %q", i, raw)
		}
		counts = append(counts, goods.ThingCount{Item: goods.ItemType(item), Count: count})
	}
	return counts, nil
}

// Given steps

func (gc *goalTrackerContext) theItemCosts(name string, table *godog.Table) error {
	cost, err := parseCounts(table)
	if err != nil {
		return err
	}
	def := gc.item(name)
	def.CountAsResource = false
	def.CostList = cost
	for _, c := range cost {
		gc.item(string(c.Item))
	}
	return nil
}

func (gc *goalTrackerContext) theRecipeMakesFrom(recipeName string, amount int, product string, table *godog.Table) error {
	ingredients, err := parseCounts(table)
	if err != nil {
		return err
	}
	gc.item(product)

	recipe := &goods.Recipe{
		Name:     recipeName,
		Products: []goods.ThingCount{{Item: goods.ItemType(product), Count: amount}},
	}
	for _, ing := range ingredients {
		gc.item(string(ing.Item))
		recipe.Ingredients = append(recipe.Ingredients, goods.IngredientSlot{
			Substitutes: []goods.Substitute{{Item: ing.Item, Count: ing.Count}},
		})
	}
	gc.recipes = append(gc.recipes, recipe)
	return nil
}

func (gc *goalTrackerContext) thePresetTargets(id string, table *godog.Table) error {
	parts, err := parseCounts(table)
	if err != nil {
		return err
	}
	for _, p := range parts {
		gc.item(string(p.Item))
	}
	gc.presetDefs = append(gc.presetDefs, goal.PresetDefinition{ID: id, Label: id, Parts: parts})
	return nil
}

func (gc *goalTrackerContext) thePresetTargetsOnePerColonist(id, itemName, where string) error {
	gc.item(itemName)
	scope := goal.ScopeMap
	if where == "anywhere" {
		scope = goal.ScopeAll
	}
	gc.presetDefs = append(gc.presetDefs, goal.PresetDefinition{
		ID:        id,
		Label:     id,
		Parts:     []goods.ThingCount{{Item: goods.ItemType(itemName), Count: 1}},
		ScaleItem: goods.ItemType(itemName),
		Scope:     scope,
	})
	return nil
}

func (gc *goalTrackerContext) theStockpileHolds(table *godog.Table) error {
	stock, err := parseCounts(table)
	if err != nil {
		return err
	}
	for _, s := range stock {
		def := gc.item(string(s.Item))
		if def.CountAsResource {
			gc.snapshot.ResourceCounts[s.Item] += s.Count
			continue
		}
		gc.snapshot.Things = append(gc.snapshot.Things, inventory.Thing{Def: s.Item, Stack: s.Count})
	}
	gc.refreshWorld()
	return nil
}

func (gc *goalTrackerContext) colonistsOnTheMapAndElsewhere(onMap, elsewhere int) error {
	gc.snapshot.Colonists = nil
	for i := 0; i < onMap; i++ {
		gc.snapshot.Colonists = append(gc.snapshot.Colonists, inventory.Colonist{Name: fmt.Sprintf("colonist-%d", i+1)})
	}
	gc.snapshot.ColonistsElsewhere = elsewhere
	gc.refreshWorld()
	return nil
}

func (gc *goalTrackerContext) theTrackerUsesAggregation(mode string) error {
	if gc.goals != nil {
		return fmt.Errorf("aggregation mode must be chosen before the tracker starts")
	}
	gc.mode = services.ModeFromDeepSum(mode == "deep-sum")
	return nil
}

func (gc *goalTrackerContext) theTrackerKeepsItsStateInTheDatabase() error {
	if helpers.SharedTestDB == nil {
		return fmt.Errorf("shared test database not initialized")
	}
	if err := helpers.TruncateAllTables(); err != nil {
		return err
	}
	gc.persistent = true
	return nil
}

// When steps

func (gc *goalTrackerContext) theTrackerRecomputes() error {
	if err := gc.ensureStarted(); err != nil {
		return err
	}
	_, err := gc.mediator.Send(context.Background(), &commands.TickCommand{Trigger: "bdd"})
	return err
}

func (gc *goalTrackerContext) iSwitchTheGoalTo(presetID string) error {
	if err := gc.ensureStarted(); err != nil {
		return err
	}
	resp, err := gc.mediator.Send(context.Background(), &commands.SwitchGoalCommand{PresetID: presetID})
	gc.err = err
	gc.switchResp = nil
	if err == nil {
		gc.switchResp = resp.(*commands.SwitchGoalResponse)
	}
	return nil
}

func (gc *goalTrackerContext) theTrackerRestarts() error {
	if err := gc.ensureStarted(); err != nil {
		return err
	}
	if _, err := gc.mediator.Send(context.Background(), &commands.PersistStateCommand{}); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	gc.mediator = nil
	if err := gc.ensureStarted(); err != nil {
		return err
	}
	resp, err := gc.mediator.Send(context.Background(), &commands.RestoreStateCommand{})
	if err != nil {
		return fmt.Errorf("failed to restore state: %w", err)
	}
	gc.restoreResp = resp.(*commands.RestoreStateResponse)
	return nil
}

// Then steps

func (gc *goalTrackerContext) theDeficitShouldBe(table *godog.Table) error {
	expected, err := parseCounts(table)
	if err != nil {
		return err
	}
	actual, err := gc.outstanding()
	if err != nil {
		return err
	}

	want := make(map[goods.ItemType]int, len(expected))
	for _, e := range expected {
		want[e.Item] = e.Count
	}
	if len(actual) != len(want) {
		return fmt.Errorf("expected deficit %s, got %s", formatCounts(want), formatCounts(actual))
	}
	for item, count := range want {
		if actual[item] != count {
			return fmt.Errorf("expected %d %s missing, got %d (deficit %s)", count, item, actual[item], formatCounts(actual))
		}
	}
	return nil
}

func (gc *goalTrackerContext) theDeficitShouldBeEmpty() error {
	actual, err := gc.outstanding()
	if err != nil {
		return err
	}
	if len(actual) != 0 {
		return fmt.Errorf("expected an empty deficit, got %s", formatCounts(actual))
	}
	return nil
}

func (gc *goalTrackerContext) theActiveGoalShouldBe(presetID string) error {
	if gc.goals == nil {
		return fmt.Errorf("tracker not started")
	}
	if got := gc.goals.Active().ID(); got != presetID {
		return fmt.Errorf("expected active goal %s, got %s", presetID, got)
	}
	return nil
}

func (gc *goalTrackerContext) theSwitchShouldFailSuggesting(suggestion string) error {
	if gc.err == nil {
		return fmt.Errorf("expected the switch to fail, but it succeeded")
	}
	var unknown *goal.ErrUnknownPreset
	if !errors.As(gc.err, &unknown) {
		return fmt.Errorf("expected an unknown preset error, got %v", gc.err)
	}
	if unknown.Suggestion != suggestion {
		return fmt.Errorf("expected suggestion %q, got %q", suggestion, unknown.Suggestion)
	}
	return nil
}

func (gc *goalTrackerContext) theSwitchShouldReportOutstanding(total int) error {
	if gc.switchResp == nil {
		return fmt.Errorf("no successful switch recorded (error: %v)", gc.err)
	}
	if gc.switchResp.Outstanding != total {
		return fmt.Errorf("expected %d outstanding, got %d", total, gc.switchResp.Outstanding)
	}
	return nil
}

func (gc *goalTrackerContext) theRestoredRecipeCacheShouldNotBeEmpty() error {
	if gc.restoreResp == nil {
		return fmt.Errorf("tracker has not been restarted")
	}
	if gc.restoreResp.RestoredItems == 0 {
		return fmt.Errorf("expected restored recipe entries, got none")
	}
	return nil
}

// ensureStarted assembles the tracker from the collected definitions
func (gc *goalTrackerContext) ensureStarted() error {
	if gc.mediator != nil {
		return nil
	}
	if len(gc.presetDefs) == 0 {
		return fmt.Errorf("no presets defined")
	}

	defs := make([]*goods.ItemDef, 0, len(gc.itemOrder))
	for _, t := range gc.itemOrder {
		defs = append(defs, gc.items[t])
	}
	registry := goods.NewStaticRegistry(defs, gc.recipes, "bdd-registry")

	presets, err := goal.BuildPresets(gc.presetDefs)
	if err != nil {
		return err
	}

	index := services.NewRecipeIndex(registry)
	world := inventory.NewStaticSource(inventory.NewSnapshotCounter(gc.snapshot, registry))
	clock := shared.NewMockClock(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))

	goalRegistry, err := services.NewGoalRegistry(services.NewCostAggregator(index, gc.mode), world, presets, clock)
	if err != nil {
		return err
	}

	deps := goals.Dependencies{
		Index:    index,
		Goals:    goalRegistry,
		World:    world,
		Instance: bddInstance,
		Clock:    clock,
	}
	if gc.persistent {
		deps.CacheRepo = persistence.NewGormRecipeCacheRepository(helpers.SharedTestDB)
		deps.StateRepo = persistence.NewGormGoalStateRepository(helpers.SharedTestDB)
	}

	m := mediator.NewMediator()
	if err := goals.RegisterHandlers(m, deps); err != nil {
		return err
	}

	gc.mediator = m
	gc.index = index
	gc.goals = goalRegistry
	gc.world = world
	return nil
}

func (gc *goalTrackerContext) refreshWorld() {
	if gc.world != nil {
		gc.world.Set(inventory.NewSnapshotCounter(gc.snapshot, gc.index.Registry()))
	}
}

func (gc *goalTrackerContext) outstanding() (map[goods.ItemType]int, error) {
	if gc.mediator == nil {
		return nil, fmt.Errorf("tracker not started")
	}
	resp, err := gc.mediator.Send(context.Background(), &queries.GetDeficitQuery{})
	if err != nil {
		return nil, err
	}
	result := make(map[goods.ItemType]int)
	for _, item := range resp.(*queries.GetDeficitResponse).Items {
		result[goods.ItemType(item.Item)] = item.Missing
	}
	return result, nil
}

func formatCounts(counts map[goods.ItemType]int) string {
	if len(counts) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(counts))
	for item, count := range counts {
		parts = append(parts, fmt.Sprintf("%s:%d", item, count))
	}
	sort.Strings(parts)
	return "{" + strings.Join(parts, ", ") + "}"
}

// InitializeGoalTrackerScenario registers the deficit and goal selection steps
func InitializeGoalTrackerScenario(ctx *godog.ScenarioContext) {
	gc := &goalTrackerContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		gc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the item "([^"]*)" costs:$`, gc.theItemCosts)
	ctx.Step(`^the recipe "([^"]*)" makes (\d+) "([^"]*)" from:$`, gc.theRecipeMakesFrom)
	ctx.Step(`^the preset "([^"]*)" targets:$`, gc.thePresetTargets)
	ctx.Step(`^the preset "([^"]*)" targets one "([^"]*)" per colonist (on the map|anywhere)$`, gc.thePresetTargetsOnePerColonist)
	ctx.Step(`^the stockpile holds:$`, gc.theStockpileHolds)
	ctx.Step(`^(\d+) colonists are on the map and (\d+) elsewhere$`, gc.colonistsOnTheMapAndElsewhere)
	ctx.Step(`^the tracker uses (compatible|deep-sum) aggregation$`, gc.theTrackerUsesAggregation)
	ctx.Step(`^the tracker keeps its state in the database$`, gc.theTrackerKeepsItsStateInTheDatabase)

	// When steps
	ctx.Step(`^the tracker recomputes$`, gc.theTrackerRecomputes)
	ctx.Step(`^I switch the goal to "([^"]*)"$`, gc.iSwitchTheGoalTo)
	ctx.Step(`^the tracker restarts$`, gc.theTrackerRestarts)

	// Then steps
	ctx.Step(`^the deficit should be:$`, gc.theDeficitShouldBe)
	ctx.Step(`^the deficit should be empty$`, gc.theDeficitShouldBeEmpty)
	ctx.Step(`^the active goal should be "([^"]*)"$`, gc.theActiveGoalShouldBe)
	ctx.Step(`^the switch should fail suggesting "([^"]*)"$`, gc.theSwitchShouldFailSuggesting)
	ctx.Step(`^the switch should report (\d+) items outstanding$`, gc.theSwitchShouldReportOutstanding)
	ctx.Step(`^the restored recipe cache should not be empty$`, gc.theRestoredRecipeCacheShouldNotBeEmpty)
}
