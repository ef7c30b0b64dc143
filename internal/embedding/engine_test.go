package embedding

import (
	"math"
	"testing"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CosineSimilarity(tt.a, tt.b)
			if err != nil {
				t.Fatalf("CosineSimilarity failed: %v", err)
			}
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("expected %f, got %f", tt.want, got)
			}
		})
	}
}

func TestCosineSimilarity_DimensionMismatch(t *testing.T) {
	if _, err := CosineSimilarity([]float32{1}, []float32{1, 2}); err == nil {
		t.Fatal("expected error for dimension mismatch")
	}
}

func TestNewEngine_UnsupportedProvider(t *testing.T) {
	if _, err := NewEngine(Config{Provider: "faiss"}); err == nil {
		t.Fatal("expected error for unsupported provider")
	}
}

func TestNewGenAIEngine_TaskType(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"RETRIEVAL_QUERY", "RETRIEVAL_QUERY"},
		{"RETRIEVAL_DOCUMENT", "RETRIEVAL_DOCUMENT"},
		{"", "SEMANTIC_SIMILARITY"},
		{"bogus", "SEMANTIC_SIMILARITY"},
	}

	for _, tt := range tests {
		e, err := NewGenAIEngine("test-key", "", tt.in)
		if err != nil {
			t.Fatalf("NewGenAIEngine(%q) failed: %v", tt.in, err)
		}
		if e.taskType != tt.want {
			t.Errorf("taskType for %q = %q, want %q", tt.in, e.taskType, tt.want)
		}
	}
}

func TestNewGenAIEngine_RequiresAPIKey(t *testing.T) {
	if _, err := NewGenAIEngine("", "", "RETRIEVAL_QUERY"); err == nil {
		t.Fatal("expected error for missing API key")
	}
}
