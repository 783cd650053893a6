package discovery

import (
	"context"
	"fmt"

	authorizationv1 "k8s.io/api/authorization/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
)

// canRead checks whether the current service account may get and list the
// given resource via SelfSubjectAccessReview.
func canRead(ctx context.Context, client kubernetes.Interface, group, resource string) (bool, error) {
	for _, verb := range []string{"get", "list"} {
		allowed, err := checkAccess(ctx, client, group, resource, verb)
		if err != nil {
			return false, err
		}
		if !allowed {
			return false, nil
		}
	}
	return true, nil
}

// checkAccess creates a SelfSubjectAccessReview for a single verb.
func checkAccess(ctx context.Context, client kubernetes.Interface, group, resource, verb string) (bool, error) {
	review := &authorizationv1.SelfSubjectAccessReview{
		Spec: authorizationv1.SelfSubjectAccessReviewSpec{
			ResourceAttributes: &authorizationv1.ResourceAttributes{
				Verb:     verb,
				Group:    group,
				Resource: resource,
			},
		},
	}

	result, err := client.AuthorizationV1().SelfSubjectAccessReviews().Create(ctx, review, metav1.CreateOptions{})
	if err != nil {
		return false, fmt.Errorf("SelfSubjectAccessReview for %s/%s verb=%s: %w", group, resource, verb, err)
	}

	return result.Status.Allowed, nil
}
