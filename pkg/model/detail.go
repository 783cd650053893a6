package model

// DetailView is the per-deployment admin projection. Unlike the aggregate
// tree it is produced for every deployment, classified or not, so the
// classification fields are carried verbatim (possibly empty).
type DetailView struct {
	Deployment DeploymentRecord `json:"deployment"`
	Game       string           `json:"game"`
	Instance   string           `json:"instance"`
	Component  string           `json:"component"`
	Healthy    bool             `json:"healthy"`
	Conditions []ConditionInfo  `json:"conditions"`
	Pods       []PodRecord      `json:"pods"`
}
