package transport

import (
	"leadgenius_backend/internal/analyses/repository"
	"leadgenius_backend/internal/leads/domain"
)

// ListQuery filters and pages the analyses log.
type ListQuery struct {
	DatasetType string `form:"dataset_type" json:"dataset_type" validate:"omitempty,oneof=bank lead_scoring"`
	Status      string `form:"status" json:"status" validate:"omitempty,oneof=hot warm cold"`
	Limit       int    `form:"limit" json:"limit" validate:"omitempty,min=1,max=200"`
	Offset      int    `form:"offset" json:"offset" validate:"omitempty,min=0"`
}

// Filter converts the query into a store filter.
func (q ListQuery) Filter() repository.ListFilter {
	return repository.ListFilter{
		DatasetType: domain.DatasetType(q.DatasetType),
		Status:      domain.Status(q.Status),
		Limit:       q.Limit,
		Offset:      q.Offset,
	}
}

type ListResponse struct {
	Items  []domain.LeadRecord `json:"items"`
	Limit  int                 `json:"limit"`
	Offset int                 `json:"offset"`
}
