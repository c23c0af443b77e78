// Package article provides HTTP handlers for the read-only article API.
// It exposes recently summarized articles and aggregate store statistics.
package article

// DTO represents the JSON structure for article data transfer.
// Full article content is intentionally omitted from list responses.
type DTO struct {
	ID          int64  `json:"id" example:"1"`
	Title       string `json:"title" example:"Researchers demonstrate error-corrected logical qubits"`
	Author      string `json:"author" example:"Jane Smith"`
	PublishDate string `json:"publish_date" example:"2025-10-26"`
	Link        string `json:"link" example:"https://news.mit.edu/2025/quantum-article"`
	Summary     string `json:"summary" example:"Researchers have shown..."`
	CreatedAt   string `json:"created_at" example:"2025-10-26T12:00:00Z"`
}

// StatsDTO represents the JSON structure for article store statistics.
type StatsDTO struct {
	Total      int64 `json:"total"`
	Summarized int64 `json:"summarized"`
	Pending    int64 `json:"pending"`
}
