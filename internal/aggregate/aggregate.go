// Package aggregate turns a flat deployment snapshot into the
// game → instance → component tree shown by the dashboard. Both entry
// points are pure functions over the snapshot; nothing here holds state
// between requests.
package aggregate

import (
	"sort"

	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// Deployment condition types/statuses that indicate failure.
const (
	conditionAvailable      = "Available"
	conditionReplicaFailure = "ReplicaFailure"
	statusTrue              = "True"
	statusFalse             = "False"
)

// Healthy reports whether a deployment is considered healthy.
//
// A deployment scaled to zero is healthy by convention (intentionally
// stopped, not failing). Otherwise all desired replicas must be ready and
// no condition may indicate failure: Available=False or ReplicaFailure=True.
func Healthy(rec *model.DeploymentRecord) bool {
	if rec.Replicas == 0 {
		return true
	}
	if rec.ReadyReplicas != rec.Replicas {
		return false
	}
	for _, c := range rec.Conditions {
		if c.Type == conditionAvailable && c.Status == statusFalse {
			return false
		}
		if c.Type == conditionReplicaFailure && c.Status == statusTrue {
			return false
		}
	}
	return true
}

// Aggregate groups deployment records into a sorted game → instance →
// component tree with health and resource roll-ups.
//
// Records missing any classification value are skipped: they cannot be
// placed in the tree, and that is a filter, not an error. Records that
// collide on the full (game, instance, component) key are kept as separate
// components in input order — Kubernetes list order is not stable across
// calls, and a silent overwrite would make the dashboard nondeterministic.
//
// Output ordering is fully deterministic: games, instances, and components
// are each sorted by name ascending regardless of input order.
func Aggregate(records []model.DeploymentRecord) []model.GameNode {
	games := make(map[string]map[string][]model.ComponentNode)

	for i := range records {
		rec := &records[i]
		if !rec.Classified() {
			continue
		}
		instances, ok := games[rec.Game]
		if !ok {
			instances = make(map[string][]model.ComponentNode)
			games[rec.Game] = instances
		}
		instances[rec.Instance] = append(instances[rec.Instance], model.ComponentNode{
			Component:  rec.Component,
			Healthy:    Healthy(rec),
			Deployment: *rec,
		})
	}

	out := make([]model.GameNode, 0, len(games))
	for gameName, instances := range games {
		game := model.GameNode{
			Name:      gameName,
			Instances: make([]model.InstanceNode, 0, len(instances)),
		}

		for instanceName, components := range instances {
			// Stable sort: colliding component keys keep insertion order.
			sort.SliceStable(components, func(i, j int) bool {
				return components[i].Component < components[j].Component
			})

			instance := model.InstanceNode{
				Name:           instanceName,
				ComponentCount: len(components),
				Components:     components,
			}
			for i := range components {
				if !components[i].Healthy {
					instance.FailingComponents++
				}
				instance.Resources.Add(componentResources(&components[i].Deployment))
			}

			game.Instances = append(game.Instances, instance)
			game.ComponentCount += instance.ComponentCount
			game.FailingDeployments += instance.FailingComponents
			game.Resources.Add(instance.Resources)
		}

		sort.Slice(game.Instances, func(i, j int) bool {
			return game.Instances[i].Name < game.Instances[j].Name
		})
		game.InstanceCount = len(game.Instances)

		out = append(out, game)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// FindGame returns the node for one game from an aggregated tree.
func FindGame(tree []model.GameNode, name string) (model.GameNode, bool) {
	for i := range tree {
		if tree[i].Name == name {
			return tree[i], true
		}
	}
	return model.GameNode{}, false
}

// componentResources sums one deployment's pod-template requests/limits.
// Quantities were parsed at the accessor boundary; malformed values arrive
// here as zero and simply contribute nothing.
func componentResources(rec *model.DeploymentRecord) model.ResourceTotals {
	var t model.ResourceTotals
	for _, c := range rec.Containers {
		t.CPURequestCores += c.CPURequestCores
		t.CPULimitCores += c.CPULimitCores
		t.MemoryRequestBytes += c.MemoryRequestBytes
		t.MemoryLimitBytes += c.MemoryLimitBytes
	}
	return t
}
