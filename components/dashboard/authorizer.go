package dashboard

import (
	"context"

	"github.com/goliatone/go-nexus/pkg/brand"
)

// FeatureAuthorizer hides widgets whose category belongs to a product area
// the brand turned off. Next, when set, makes the final call for the rest.
type FeatureAuthorizer struct {
	Features    brand.Features
	Definitions ProviderRegistry
	Next        Authorizer
}

var _ Authorizer = FeatureAuthorizer{}

func (a FeatureAuthorizer) CanViewWidget(ctx context.Context, viewer ViewerContext, instance WidgetInstance) bool {
	if a.Definitions != nil {
		if def, ok := a.Definitions.Definition(instance.DefinitionID); ok && !a.categoryEnabled(def.Category) {
			return false
		}
	}
	if a.Next != nil {
		return a.Next.CanViewWidget(ctx, viewer, instance)
	}
	return true
}

func (a FeatureAuthorizer) categoryEnabled(category string) bool {
	switch category {
	case CategoryGamification:
		return a.Features.Gamification
	case CategorySecurity:
		return a.Features.AuditLogs || a.Features.TwoFactorAuth
	}
	return true
}
