package reporting

import "context"

// Stats is the aggregate payload sent to the chart-rendering collaborator.
type Stats struct {
	Title  string         `json:"title"`
	Counts map[string]int `json:"counts"`
}

// ChartRenderer renders a statistics payload into an encoded chart image.
type ChartRenderer interface {
	Render(ctx context.Context, stats Stats) ([]byte, error)
}

// ObjectUploader stores a binary blob and returns its public URL.
type ObjectUploader interface {
	Upload(ctx context.Context, objectName string, data []byte) (string, error)
}
