package usecase

import (
	"context"

	"kompas/internal/domain/entity"
)

// SearchInput carries one search request. ForeignOnly switches the fan-out
// from the domestic sources to the foreign geocoder exclusively.
type SearchInput struct {
	Query       string `json:"query" validate:"required"`
	ForeignOnly bool   `json:"foreign_only"`
}

// SearchOutput is the merged, ranked candidate list. When the query parsed as
// a bare coordinate pair the candidate list is empty and Coordinate carries
// the parsed point instead.
type SearchOutput struct {
	Query      string             `json:"query"`
	Candidates []entity.Candidate `json:"candidates"`
	Coordinate *entity.Coordinate `json:"coordinate,omitempty"`
}

// SearchUsecase aggregates the geodata sources into one ranked result list.
type SearchUsecase interface {
	Search(ctx context.Context, input SearchInput) (*SearchOutput, error)

	// Quota reports the foreign geocoder's last observed rate-limit state,
	// false before any foreign call has been made.
	Quota() (entity.RateLimitStatus, bool)
}
