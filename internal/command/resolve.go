package command

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/jbweber/vbdctl/api/v1alpha1"
	"github.com/jbweber/vbdctl/internal/naming"
)

// SubstUnset means "substitute the domain id" for commands that accept an
// explicit substitution value.
const SubstUnset = -1

// resolvePartition turns a partition pattern into a registered partition.
// Both the pattern and the final looked-up name are reported on failure.
func resolvePartition(ctx context.Context, st *v1alpha1.State, env Env, pattern string, subst int) (v1alpha1.Partition, error) {
	resolved := naming.Resolve(pattern, subst)

	if env.Expander != nil {
		expanded, err := env.Expander.Expand(ctx, resolved)
		if err != nil {
			return v1alpha1.Partition{}, err
		}
		resolved = expanded
	}

	log := env.logger().WithFields(logrus.Fields{
		"partition": pattern,
		"resolved":  resolved,
	})

	part, ok := st.GetPartition(resolved)
	if !ok {
		log.Debug("partition lookup failed")
		return v1alpha1.Partition{}, &NotFoundError{Kind: "partition", Name: pattern, Resolved: resolved}
	}
	log.WithField("extent", part.Extent.String()).Debug("partition resolved")
	return part, nil
}
