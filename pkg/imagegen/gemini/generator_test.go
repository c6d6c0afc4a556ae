package gemini

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jmuk/recipes/pkg/imagegen"
	"google.golang.org/genai"
)

func TestToResult(t *testing.T) {
	resp := &genai.GenerateImagesResponse{
		GeneratedImages: []*genai.GeneratedImage{
			{Image: &genai.Image{ImageBytes: []byte("one"), MIMEType: "image/png"}},
			{RAIFilteredReason: "filtered for safety"},
			{Image: &genai.Image{}},
		},
	}
	var warnings []string
	got := toResult(resp, func(msg string, args ...any) {
		warnings = append(warnings, msg)
	})
	want := &imagegen.Result{
		Images: []imagegen.Image{{Data: []byte("one"), MIMEType: "image/png"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("result mismatch (-want +got):\n%s", diff)
	}
	if len(warnings) != 2 {
		t.Errorf("warnings = %v, want 2", warnings)
	}
}

func TestToResultEmpty(t *testing.T) {
	got := toResult(&genai.GenerateImagesResponse{}, func(string, ...any) {})
	if len(got.Images) != 0 {
		t.Errorf("images = %v, want none", got.Images)
	}
}
