package aggregate

import (
	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// ProjectDetail builds the per-deployment admin view from one record and
// its live pods. Unlike Aggregate it never filters: a deployment without
// classification annotations still gets a detail view, with the
// classification fields carried verbatim (possibly empty).
// Pure function — shares no state with Aggregate.
func ProjectDetail(rec model.DeploymentRecord, pods []model.PodRecord) model.DetailView {
	return model.DetailView{
		Deployment: rec,
		Game:       rec.Game,
		Instance:   rec.Instance,
		Component:  rec.Component,
		Healthy:    Healthy(&rec),
		Conditions: rec.Conditions,
		Pods:       pods,
	}
}
