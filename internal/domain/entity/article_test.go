package entity_test

import (
	"errors"
	"testing"

	"quantum-news-agent/internal/domain/entity"
)

func TestArticle_Summarized(t *testing.T) {
	tests := []struct {
		name    string
		summary string
		want    bool
	}{
		{"with summary", "A short summary.", true},
		{"empty summary", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := entity.Article{Summary: tt.summary}
			if got := a.Summarized(); got != tt.want {
				t.Errorf("Summarized() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestArticle_Validate(t *testing.T) {
	tests := []struct {
		name    string
		article entity.Article
		wantErr error
	}{
		{
			name:    "valid",
			article: entity.Article{Title: "Qubit milestone", Link: "https://example.com/a"},
			wantErr: nil,
		},
		{
			name:    "missing title",
			article: entity.Article{Link: "https://example.com/a"},
			wantErr: entity.ErrTitleRequired,
		},
		{
			name:    "missing link",
			article: entity.Article{Title: "Qubit milestone"},
			wantErr: entity.ErrLinkRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.article.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
