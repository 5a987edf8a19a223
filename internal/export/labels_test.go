package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/PolyPack/internal/model"
)

func TestExportLabels_CreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "labels.pdf")

	err := ExportLabels(path, buildTestResult())
	if err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
	if info.Size() < 500 {
		t.Errorf("PDF file seems too small: %d bytes", info.Size())
	}
}

func TestExportLabels_EmptyResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.pdf")

	err := ExportLabels(path, model.PuzzleResult{})
	if err == nil {
		t.Fatal("expected error for empty result, got nil")
	}
}

func TestExportLabels_MultiplePages(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "multi_page.pdf")

	var result model.PuzzleResult
	for i := 0; i < 35; i++ {
		result.Regions = append(result.Regions, model.RegionResult{
			Region:  model.NewRegion("", 4+i, 4, 1),
			Verdict: model.VerdictNotPackable,
		})
	}

	if err := ExportLabels(path, result); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("PDF file was not created: %v", err)
	}
}

func TestExportLabels_LongLabel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "long.pdf")

	result := model.PuzzleResult{Regions: []model.RegionResult{{
		Region:  model.NewRegion("A region with a very long descriptive name that will not fit", 3, 3),
		Verdict: model.VerdictPackable,
	}}}

	if err := ExportLabels(path, result); err != nil {
		t.Fatalf("ExportLabels returned error: %v", err)
	}
}

func TestCollectLabelInfos(t *testing.T) {
	labels := CollectLabelInfos(buildTestResult())

	if len(labels) != 3 {
		t.Fatalf("expected 3 labels, got %d", len(labels))
	}

	if labels[0].Label != "Small" || labels[0].Index != 1 {
		t.Errorf("unexpected first label %+v", labels[0])
	}
	if labels[0].Width != 4 || labels[0].Height != 4 {
		t.Errorf("wrong size: got %dx%d, want 4x4", labels[0].Width, labels[0].Height)
	}
	if labels[0].Pieces != 2 {
		t.Errorf("expected 2 pieces, got %d", labels[0].Pieces)
	}
	if labels[0].Fill != 50 {
		t.Errorf("expected 50%% fill, got %.1f", labels[0].Fill)
	}
	if labels[2].Verdict != model.VerdictAborted {
		t.Errorf("expected third label aborted, got %s", labels[2].Verdict)
	}
}

func TestLabelInfo_JSONPayload(t *testing.T) {
	info := CollectLabelInfos(buildTestResult())[0]

	data, err := json.Marshal(info)
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}
	for _, key := range []string{"region", "label", "width", "height", "verdict", "pieces"} {
		if _, ok := payload[key]; !ok {
			t.Errorf("payload is missing %q: %s", key, data)
		}
	}
	if payload["verdict"] != "packable" {
		t.Errorf("expected verdict 'packable', got %v", payload["verdict"])
	}
}
