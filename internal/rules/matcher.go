// Package rules selects the distribution rule owning a route. The cascade
// is evaluated in memory over the platform's preloaded rule set so the
// tier ordering stays explicit and testable.
package rules

import "github.com/SKR-SG/ASP/internal/entity"

// Match returns the single best rule for a (loading city, unloading city)
// route, or nil when no rule applies.
//
// Tiers, first match wins:
//  1. exact loading city, exact unloading city
//  2. exact loading city, wildcard unloading city
//  3. wildcard loading city, exact unloading city
//  4. wildcard on both
//
// A more specific geographic rule always beats a more general one.
func Match(ruleSet []entity.DistributionRule, loadingCity, unloadingCity string) *entity.DistributionRule {
	tiers := [4]func(r *entity.DistributionRule) bool{
		func(r *entity.DistributionRule) bool {
			return cityEquals(r.LoadingCity, loadingCity) && cityEquals(r.UnloadingCity, unloadingCity)
		},
		func(r *entity.DistributionRule) bool {
			return cityEquals(r.LoadingCity, loadingCity) && r.UnloadingCity == nil
		},
		func(r *entity.DistributionRule) bool {
			return r.LoadingCity == nil && cityEquals(r.UnloadingCity, unloadingCity)
		},
		func(r *entity.DistributionRule) bool {
			return r.LoadingCity == nil && r.UnloadingCity == nil
		},
	}

	for _, matches := range tiers {
		for i := range ruleSet {
			if matches(&ruleSet[i]) {
				return &ruleSet[i]
			}
		}
	}
	return nil
}

func cityEquals(ruleCity *string, city string) bool {
	return ruleCity != nil && *ruleCity == city
}
