package transport

import (
	"leadgenius_backend/internal/leads/domain"
	"leadgenius_backend/internal/leads/intake"
)

// Query DTOs

// ModelQuery selects a dataset and model. Both may also be sent in the
// request body of the score endpoint; the query string takes precedence.
type ModelQuery struct {
	DatasetType string `form:"dataset_type" json:"dataset_type" validate:"omitempty,oneof=bank lead_scoring"`
	ModelType   string `form:"model_type" json:"model_type" validate:"omitempty,max=64,excludesall=&?/#"`
}

// DatasetQuery selects a dataset.
type DatasetQuery struct {
	DatasetType string `form:"dataset_type" json:"dataset_type" validate:"omitempty,oneof=bank lead_scoring"`
}

// Dataset returns the selected dataset, bank when empty.
func (q DatasetQuery) Dataset() domain.DatasetType {
	d, _ := domain.ParseDatasetType(q.DatasetType)
	return d
}

// Dataset returns the selected dataset, bank when empty.
func (q ModelQuery) Dataset() domain.DatasetType {
	d, _ := domain.ParseDatasetType(q.DatasetType)
	return d
}

// Model returns the selected model, random_forest when empty.
func (q ModelQuery) Model() string {
	if q.ModelType == "" {
		return domain.ModelRandomForest
	}
	return q.ModelType
}

// Response DTOs

type FormResponse struct {
	DatasetType domain.DatasetType `json:"datasetType"`
	Fields      []intake.Field     `json:"fields"`
	Defaults    domain.Attributes  `json:"defaults"`
}

type ValidationResponse struct {
	Valid bool `json:"valid"`
}
