package render

import (
	"errors"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/penwyp/go-chronoface/internal/core/layout"
	"github.com/penwyp/go-chronoface/internal/core/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func a4Plan() layout.Plan {
	return layout.Plan{Columns: 5, Rows: 6, TileSize: 442, PaddingX: 45, PaddingY: 122, Margin: 45}
}

func TestBuild(t *testing.T) {
	opts := DefaultDisplayOptions()
	opts.RunID = "run-1"
	opts.Title = "2024"

	req := Build(a4Plan(), model.PaperA4, Selection{Bucket: "2024-01", FaceIDs: []string{"a", "b"}}, opts)

	assert.Equal(t, "run-1", req.RunID)
	assert.Equal(t, "2024-01", req.Bucket)
	assert.Equal(t, 442, req.TileSize)
	assert.Equal(t, 5, req.Columns)
	assert.Equal(t, 45, req.PaddingX)
	assert.Equal(t, 122, req.PaddingY)
	assert.Equal(t, 45, req.Margin)
	assert.Equal(t, "white", req.Background)
	assert.Equal(t, model.SortByTime, req.Sort)
	assert.Equal(t, 300, req.MaxFaces)
	assert.Equal(t, model.SelectAcceptedOnly, req.FaceSelection)
	assert.Equal(t, []string{"a", "b"}, req.FaceIDs)
	assert.Zero(t, req.CornerRadius)
	require.NotNil(t, req.ShowLabels)
	assert.True(t, *req.ShowLabels)
	assert.Equal(t, model.PaperA4, req.OutputFormat)
	assert.NoError(t, req.Validate())
}

func TestBuildCornerRadius(t *testing.T) {
	tests := []struct {
		tile int
		want int
	}{
		{442, 44},
		{445, 45}, // 44.5 rounds half away from zero
		{160, 16},
		{154, 15},
	}

	for _, tt := range tests {
		opts := DefaultDisplayOptions()
		opts.Rounded = true
		plan := a4Plan()
		plan.TileSize = tt.tile
		req := Build(plan, model.PaperA4, Selection{Bucket: "all"}, opts)
		assert.Equal(t, tt.want, req.CornerRadius, "tile %d", tt.tile)
	}
}

func TestBuildDoesNotAliasFaceIDs(t *testing.T) {
	ids := []string{"a"}
	req := Build(a4Plan(), model.PaperA4, Selection{Bucket: "x", FaceIDs: ids}, DefaultDisplayOptions())
	ids[0] = "changed"
	assert.Equal(t, []string{"a"}, req.FaceIDs)
}

func TestRenderRequestJSON(t *testing.T) {
	opts := DefaultDisplayOptions()
	opts.ShowLabels = false
	req := Build(a4Plan(), model.PaperA3, Selection{Bucket: "2024-W02"}, opts)

	data, err := sonic.Marshal(req)
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, sonic.Unmarshal(data, &fields))
	assert.Equal(t, "2024-W02", fields["bucket"])
	assert.EqualValues(t, 442, fields["tile_size"])
	assert.EqualValues(t, 122, fields["padding_y"])
	assert.Equal(t, "A3", fields["output_format"])
	assert.Equal(t, false, fields["show_labels"])
	assert.NotContains(t, fields, "face_ids")
	assert.NotContains(t, fields, "corner_radius")
	assert.NotContains(t, fields, "run_id")
}

func TestValidate(t *testing.T) {
	valid := Build(a4Plan(), model.PaperA4, Selection{Bucket: "2024"}, DefaultDisplayOptions())

	tests := []struct {
		name   string
		mutate func(r *RenderRequest)
		want   string
	}{
		{"missing bucket", func(r *RenderRequest) { r.Bucket = "" }, "bucket is required"},
		{"tile too small", func(r *RenderRequest) { r.TileSize = 12 }, "tile_size must be at least 32"},
		{"too many columns", func(r *RenderRequest) { r.Columns = 41 }, "columns must be at most 40"},
		{"padding too large", func(r *RenderRequest) { r.PaddingY = 926 }, "padding_y must be at most 500"},
		{"bad sort", func(r *RenderRequest) { r.Sort = "by_size" }, "sort must be one of"},
		{"bad paper", func(r *RenderRequest) { r.OutputFormat = "Letter" }, "output_format must be one of"},
		{"empty face id", func(r *RenderRequest) { r.FaceIDs = []string{"a", ""} }, "face_ids[1] is required"},
		{"bad label format", func(r *RenderRequest) { r.LabelFormat = "hour" }, "label_format must be one of"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := valid
			tt.mutate(&r)
			err := r.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidRequest))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestClamp(t *testing.T) {
	plan := layout.Solve(1, 2480, 3508)
	req := Build(plan, model.PaperA4, Selection{Bucket: "2024"}, DefaultDisplayOptions())
	require.Error(t, req.Validate())

	changed := req.Clamp()
	assert.Equal(t, []string{"padding_y"}, changed)
	assert.Equal(t, MaxPadding, req.PaddingY)
	assert.NoError(t, req.Validate())

	assert.Empty(t, req.Clamp())
}
