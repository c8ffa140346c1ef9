package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/aalvaropc/munson/internal/document"
	"github.com/aalvaropc/munson/internal/domain"
)

type RelatedRequest struct {
	Type         string
	ID           string
	Relationship string
	Query        QueryOptions
}

type RelatedResult struct {
	Path    string
	Parent  *document.Document
	Related document.Related
}

// FetchRelated reads one resource with a relationship side-loaded and resolves it.
type FetchRelated struct {
	fetch *FetchResources
}

func NewFetchRelated(fetch *FetchResources) *FetchRelated {
	return &FetchRelated{fetch: fetch}
}

func (uc *FetchRelated) Execute(ctx context.Context, req RelatedRequest) (RelatedResult, error) {
	if strings.TrimSpace(req.ID) == "" || strings.TrimSpace(req.Relationship) == "" {
		return RelatedResult{}, &domain.OpError{
			Op:   "usecase.related",
			Kind: domain.KindInvalidConfig,
			Err:  fmt.Errorf("id and relationship are required: %w", domain.ErrInvalidConfig),
		}
	}

	q := req.Query
	if !containsString(q.Includes, req.Relationship) {
		q.Includes = append(append([]string{}, q.Includes...), req.Relationship)
	}

	res, err := uc.fetch.Execute(ctx, FetchRequest{Type: req.Type, ID: req.ID, Query: q})
	if err != nil {
		return RelatedResult{}, err
	}
	if len(res.Documents) != 1 {
		return RelatedResult{}, &domain.OpError{
			Op:   "usecase.related",
			Kind: domain.KindShapeMismatch,
			Path: res.Path,
			Err:  fmt.Errorf("expected one %s document, got %d: %w", req.Type, len(res.Documents), domain.ErrShapeMismatch),
		}
	}

	parent := res.Documents[0]
	rel, err := parent.Relationship(req.Relationship)
	if err != nil {
		return RelatedResult{}, err
	}
	return RelatedResult{Path: res.Path, Parent: parent, Related: rel}, nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
