package service

import "leadgenius_backend/internal/leads/domain"

// BuiltinSample returns a ready-to-score example lead for dataset.
// Unknown datasets get the B2B sample.
func BuiltinSample(dataset domain.DatasetType) domain.Attributes {
	if dataset.IsBank() {
		return domain.NewAttributes(
			"age", 35,
			"job", "management",
			"marital", "married",
			"education", "tertiary",
			"default", "no",
			"housing", "yes",
			"loan", "no",
			"contact", "cellular",
			"month", "may",
			"day_of_week", "mon",
			"duration", 180,
			"campaign", 2,
			"pdays", 999,
			"previous", 0,
			"poutcome", "nonexistent",
			domain.KeyEmpVarRate, -1.8,
			domain.KeyConsPriceIdx, 92.89,
			domain.KeyConsConfIdx, -46.2,
			domain.KeyEuribor3m, 1.3,
			domain.KeyNrEmployed, 5099.1,
		)
	}
	return domain.NewAttributes(
		"budget", 0.7,
		"authority", 0.8,
		"need", 0.6,
		"timeframe", 0.75,
		"engagement_level", 0.65,
		"website_visits", 5,
		"time_spent", 8.5,
	)
}
