package aggregate

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// rec builds a minimal classified record. desired/ready control health.
func rec(game, instance, component string, desired, ready int32) model.DeploymentRecord {
	return model.DeploymentRecord{
		Name:          fmt.Sprintf("%s-%s-%s", game, instance, component),
		Namespace:     "games",
		Game:          game,
		Instance:      instance,
		Component:     component,
		Replicas:      desired,
		ReadyReplicas: ready,
	}
}

func TestAggregate_FactorioScenario(t *testing.T) {
	records := []model.DeploymentRecord{
		rec("factorio", "vanilla", "gameserver", 1, 1),
		rec("factorio", "vanilla", "webserver", 1, 0),
	}

	tree := Aggregate(records)

	if len(tree) != 1 {
		t.Fatalf("expected 1 game, got %d", len(tree))
	}
	game := tree[0]
	if game.Name != "factorio" {
		t.Errorf("game name = %q, want factorio", game.Name)
	}
	if game.InstanceCount != 1 || len(game.Instances) != 1 {
		t.Fatalf("expected 1 instance, got count=%d len=%d", game.InstanceCount, len(game.Instances))
	}
	if game.ComponentCount != 2 {
		t.Errorf("ComponentCount = %d, want 2", game.ComponentCount)
	}
	if game.FailingDeployments != 1 {
		t.Errorf("FailingDeployments = %d, want 1", game.FailingDeployments)
	}

	instance := game.Instances[0]
	if instance.Name != "vanilla" {
		t.Errorf("instance name = %q, want vanilla", instance.Name)
	}
	if instance.ComponentCount != 2 {
		t.Errorf("instance ComponentCount = %d, want 2", instance.ComponentCount)
	}
	if instance.FailingComponents != 1 {
		t.Errorf("FailingComponents = %d, want 1", instance.FailingComponents)
	}

	// Components sorted by name: gameserver before webserver.
	if instance.Components[0].Component != "gameserver" || instance.Components[1].Component != "webserver" {
		t.Errorf("components out of order: %q, %q", instance.Components[0].Component, instance.Components[1].Component)
	}
	if !instance.Components[0].Healthy {
		t.Error("gameserver (1/1 ready) should be healthy")
	}
	if instance.Components[1].Healthy {
		t.Error("webserver (0/1 ready) should be unhealthy")
	}
}

func TestAggregate_EmptyInput(t *testing.T) {
	tree := Aggregate(nil)
	if len(tree) != 0 {
		t.Fatalf("expected empty tree, got %d games", len(tree))
	}

	tree = Aggregate([]model.DeploymentRecord{})
	if len(tree) != 0 {
		t.Fatalf("expected empty tree, got %d games", len(tree))
	}
}

func TestAggregate_FiltersUnclassifiedRecords(t *testing.T) {
	missingInstance := rec("factorio", "", "gameserver", 1, 1)
	missingGame := rec("", "vanilla", "gameserver", 1, 1)
	missingComponent := rec("factorio", "vanilla", "", 1, 1)
	unannotated := model.DeploymentRecord{Name: "plain-app", Namespace: "default", Replicas: 1, ReadyReplicas: 1}
	classified := rec("factorio", "vanilla", "gameserver", 1, 1)

	tree := Aggregate([]model.DeploymentRecord{
		missingInstance, missingGame, missingComponent, unannotated, classified,
	})

	total := 0
	for _, g := range tree {
		for _, inst := range g.Instances {
			total += len(inst.Components)
			for _, c := range inst.Components {
				if c.Deployment.Name != classified.Name {
					t.Errorf("unclassified record %q leaked into the tree", c.Deployment.Name)
				}
			}
		}
	}
	if total != 1 {
		t.Errorf("expected exactly 1 component (only the classified record), got %d", total)
	}
}

// Total component count always equals the number of classified input records.
func TestAggregate_ComponentCountConservation(t *testing.T) {
	records := []model.DeploymentRecord{
		rec("factorio", "vanilla", "gameserver", 1, 1),
		rec("factorio", "vanilla", "webserver", 1, 1),
		rec("factorio", "modded", "gameserver", 2, 2),
		rec("valheim", "midgard", "world", 1, 0),
		rec("valheim", "", "world", 1, 1), // unclassified
		{Name: "unrelated", Namespace: "default"},
	}
	classified := 0
	for i := range records {
		if records[i].Classified() {
			classified++
		}
	}

	tree := Aggregate(records)

	sumInstances := 0
	sumGames := 0
	for _, g := range tree {
		sumGames += g.ComponentCount
		instanceComponents := 0
		for _, inst := range g.Instances {
			if inst.ComponentCount != len(inst.Components) {
				t.Errorf("instance %s/%s: ComponentCount=%d but %d children", g.Name, inst.Name, inst.ComponentCount, len(inst.Components))
			}
			instanceComponents += inst.ComponentCount
		}
		if g.ComponentCount != instanceComponents {
			t.Errorf("game %s: ComponentCount=%d but instance sum=%d", g.Name, g.ComponentCount, instanceComponents)
		}
		sumInstances += instanceComponents
	}
	if sumGames != classified || sumInstances != classified {
		t.Errorf("component totals = %d/%d, want %d (classified records)", sumGames, sumInstances, classified)
	}
}

func TestAggregate_FailingRollup(t *testing.T) {
	records := []model.DeploymentRecord{
		rec("factorio", "vanilla", "gameserver", 1, 0),
		rec("factorio", "vanilla", "webserver", 1, 1),
		rec("factorio", "modded", "gameserver", 3, 1),
	}

	tree := Aggregate(records)
	game := tree[0]

	unhealthy := 0
	for _, inst := range game.Instances {
		for _, c := range inst.Components {
			if !c.Healthy {
				unhealthy++
			}
		}
	}
	if game.FailingDeployments != unhealthy {
		t.Errorf("FailingDeployments = %d, want %d (descendant unhealthy count)", game.FailingDeployments, unhealthy)
	}
	if game.FailingDeployments != 2 {
		t.Errorf("FailingDeployments = %d, want 2", game.FailingDeployments)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	records := []model.DeploymentRecord{
		rec("valheim", "midgard", "world", 1, 1),
		rec("factorio", "modded", "gameserver", 2, 2),
		rec("factorio", "vanilla", "webserver", 1, 0),
		rec("factorio", "vanilla", "gameserver", 1, 1),
	}

	first := Aggregate(records)
	second := Aggregate(records)

	if !reflect.DeepEqual(first, second) {
		t.Error("aggregating the same input twice must produce identical output")
	}
}

func TestAggregate_SortedOutput(t *testing.T) {
	// Deliberately unsorted input.
	records := []model.DeploymentRecord{
		rec("valheim", "midgard", "world", 1, 1),
		rec("factorio", "vanilla", "webserver", 1, 1),
		rec("factorio", "modded", "gameserver", 1, 1),
		rec("factorio", "vanilla", "gameserver", 1, 1),
	}

	tree := Aggregate(records)

	if tree[0].Name != "factorio" || tree[1].Name != "valheim" {
		t.Errorf("games not sorted: %q, %q", tree[0].Name, tree[1].Name)
	}
	factorio := tree[0]
	if factorio.Instances[0].Name != "modded" || factorio.Instances[1].Name != "vanilla" {
		t.Errorf("instances not sorted: %q, %q", factorio.Instances[0].Name, factorio.Instances[1].Name)
	}
	vanilla := factorio.Instances[1]
	if vanilla.Components[0].Component != "gameserver" || vanilla.Components[1].Component != "webserver" {
		t.Errorf("components not sorted: %q, %q", vanilla.Components[0].Component, vanilla.Components[1].Component)
	}
}

func TestAggregate_CollidingKeysKeepBothRecords(t *testing.T) {
	first := rec("factorio", "vanilla", "gameserver", 1, 1)
	first.Name = "gameserver-blue"
	second := rec("factorio", "vanilla", "gameserver", 1, 0)
	second.Name = "gameserver-green"

	tree := Aggregate([]model.DeploymentRecord{first, second})

	instance := tree[0].Instances[0]
	if instance.ComponentCount != 2 {
		t.Fatalf("colliding keys must keep both components, got %d", instance.ComponentCount)
	}
	// Insertion order preserved for identical component keys.
	if instance.Components[0].Deployment.Name != "gameserver-blue" {
		t.Errorf("first colliding record = %q, want gameserver-blue", instance.Components[0].Deployment.Name)
	}
	if instance.Components[1].Deployment.Name != "gameserver-green" {
		t.Errorf("second colliding record = %q, want gameserver-green", instance.Components[1].Deployment.Name)
	}
	if instance.FailingComponents != 1 {
		t.Errorf("FailingComponents = %d, want 1", instance.FailingComponents)
	}
}

func TestHealthy_ScaledToZero(t *testing.T) {
	r := rec("factorio", "vanilla", "gameserver", 0, 0)
	if !Healthy(&r) {
		t.Error("deployment scaled to zero should be healthy by convention")
	}
}

func TestHealthy_FailureConditions(t *testing.T) {
	tests := []struct {
		name       string
		conditions []model.ConditionInfo
		want       bool
	}{
		{"no conditions", nil, true},
		{"available true", []model.ConditionInfo{{Type: "Available", Status: "True"}}, true},
		{"available false", []model.ConditionInfo{{Type: "Available", Status: "False"}}, false},
		{"replica failure", []model.ConditionInfo{{Type: "ReplicaFailure", Status: "True"}}, false},
		{"replica failure cleared", []model.ConditionInfo{{Type: "ReplicaFailure", Status: "False"}}, true},
		{"progressing false is not failure", []model.ConditionInfo{{Type: "Progressing", Status: "False"}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := rec("factorio", "vanilla", "gameserver", 1, 1)
			r.Conditions = tc.conditions
			if got := Healthy(&r); got != tc.want {
				t.Errorf("Healthy() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestHealthy_NotAllReplicasReady(t *testing.T) {
	r := rec("factorio", "vanilla", "gameserver", 3, 2)
	if Healthy(&r) {
		t.Error("2/3 ready should be unhealthy")
	}
}

func TestAggregate_ResourceRollup(t *testing.T) {
	a := rec("factorio", "vanilla", "gameserver", 1, 1)
	a.Containers = []model.ContainerSpecInfo{
		{Name: "gameserver", CPURequestCores: 0.5, CPULimitCores: 2, MemoryRequestBytes: 2 << 30, MemoryLimitBytes: 4 << 30},
	}
	b := rec("factorio", "vanilla", "webserver", 1, 1)
	b.Containers = []model.ContainerSpecInfo{
		{Name: "web", CPURequestCores: 0.25, CPULimitCores: 1, MemoryRequestBytes: 1 << 30, MemoryLimitBytes: 2 << 30},
		{Name: "sidecar", CPURequestCores: 0.1, MemoryRequestBytes: 64 << 20},
	}
	// Malformed quantity strings parse to zero at the accessor boundary;
	// a component with zeroed resources contributes nothing.
	c := rec("factorio", "modded", "gameserver", 1, 1)
	c.Containers = []model.ContainerSpecInfo{{Name: "gameserver"}}

	tree := Aggregate([]model.DeploymentRecord{a, b, c})
	game := tree[0]

	vanilla := game.Instances[1]
	if vanilla.Resources.CPURequestCores != 0.85 {
		t.Errorf("vanilla CPURequestCores = %v, want 0.85", vanilla.Resources.CPURequestCores)
	}
	if vanilla.Resources.CPULimitCores != 3 {
		t.Errorf("vanilla CPULimitCores = %v, want 3", vanilla.Resources.CPULimitCores)
	}
	wantMemReq := int64(3<<30 + 64<<20)
	if vanilla.Resources.MemoryRequestBytes != wantMemReq {
		t.Errorf("vanilla MemoryRequestBytes = %d, want %d", vanilla.Resources.MemoryRequestBytes, wantMemReq)
	}

	modded := game.Instances[0]
	if modded.Resources != (model.ResourceTotals{}) {
		t.Errorf("modded resources = %+v, want all zero", modded.Resources)
	}

	// Game totals equal the sum of instance totals.
	var sum model.ResourceTotals
	for _, inst := range game.Instances {
		sum.Add(inst.Resources)
	}
	if game.Resources != sum {
		t.Errorf("game resources = %+v, want sum of instances %+v", game.Resources, sum)
	}
}

func TestFindGame(t *testing.T) {
	tree := Aggregate([]model.DeploymentRecord{
		rec("factorio", "vanilla", "gameserver", 1, 1),
		rec("valheim", "midgard", "world", 1, 1),
	})

	game, ok := FindGame(tree, "valheim")
	if !ok || game.Name != "valheim" {
		t.Errorf("FindGame(valheim) = %v, %v", game.Name, ok)
	}

	if _, ok := FindGame(tree, "minecraft"); ok {
		t.Error("FindGame should report false for an unknown game")
	}
}
