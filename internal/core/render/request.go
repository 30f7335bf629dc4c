// Package render assembles collage render requests from a solved layout and
// sends them to the collage renderer.
package render

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/penwyp/go-chronoface/internal/core/layout"
	"github.com/penwyp/go-chronoface/internal/core/model"
)

var ErrInvalidRequest = errors.New("invalid render request")

// Renderer limits.
const (
	MinTileSize     = 32
	MaxTileSize     = 2000
	MaxColumns      = 40
	MaxPadding      = 500
	MaxMargin       = 256
	MaxFaces        = 2000
	MaxCornerRadius = 200

	cornerRadiusRatio = 0.1
)

// DisplayOptions are the presentation choices that do not come from the
// layout solver.
type DisplayOptions struct {
	Background    string
	Sort          model.SortMode
	MaxFaces      int
	FaceSelection model.FaceSelection
	Rounded       bool
	ShowLabels    bool
	LabelFormat   model.Granularity
	Title         string
	Preview       bool
	RunID         string
}

// DefaultDisplayOptions mirrors the renderer's own defaults.
func DefaultDisplayOptions() DisplayOptions {
	return DisplayOptions{
		Background:    "white",
		Sort:          model.SortByTime,
		MaxFaces:      300,
		FaceSelection: model.SelectAcceptedOnly,
		ShowLabels:    true,
		LabelFormat:   model.GranularityAll,
	}
}

// Selection names what to render: a bucket key and optionally the exact
// faces to place, in order.
type Selection struct {
	Bucket  string
	FaceIDs []string
}

// RenderRequest is the body of POST /api/collage.
type RenderRequest struct {
	RunID         string              `json:"run_id,omitempty"`
	Bucket        string              `json:"bucket" validate:"required"`
	TileSize      int                 `json:"tile_size" validate:"min=32,max=2000"`
	Columns       int                 `json:"columns" validate:"min=1,max=40"`
	PaddingX      int                 `json:"padding_x" validate:"min=0,max=500"`
	PaddingY      int                 `json:"padding_y" validate:"min=0,max=500"`
	Margin        int                 `json:"margin" validate:"min=0,max=256"`
	Background    string              `json:"background" validate:"required"`
	Sort          model.SortMode      `json:"sort" validate:"oneof=by_time by_cluster random"`
	MaxFaces      int                 `json:"max_faces" validate:"min=1,max=2000"`
	FaceSelection model.FaceSelection `json:"face_selection" validate:"oneof=accepted_only accepted_and_unreviewed"`
	FaceIDs       []string            `json:"face_ids,omitempty" validate:"max=2000,dive,required"`
	CornerRadius  int                 `json:"corner_radius,omitempty" validate:"min=0,max=200"`
	ShowLabels    *bool               `json:"show_labels,omitempty"`
	Title         string              `json:"title,omitempty"`
	LabelFormat   model.Granularity   `json:"label_format,omitempty" validate:"omitempty,oneof=day week month year all"`
	OutputFormat  model.PaperSize     `json:"output_format,omitempty" validate:"omitempty,oneof=A5 A4 A3"`
	Preview       bool                `json:"preview,omitempty"`
}

// Build copies plan, paper and opts into a request. The corner radius is a
// tenth of the tile size when rounded corners are requested.
func Build(plan layout.Plan, paper model.PaperSize, sel Selection, opts DisplayOptions) RenderRequest {
	req := RenderRequest{
		RunID:         opts.RunID,
		Bucket:        sel.Bucket,
		TileSize:      plan.TileSize,
		Columns:       plan.Columns,
		PaddingX:      plan.PaddingX,
		PaddingY:      plan.PaddingY,
		Margin:        plan.Margin,
		Background:    opts.Background,
		Sort:          opts.Sort,
		MaxFaces:      opts.MaxFaces,
		FaceSelection: opts.FaceSelection,
		Title:         opts.Title,
		LabelFormat:   opts.LabelFormat,
		OutputFormat:  paper,
		Preview:       opts.Preview,
	}
	if len(sel.FaceIDs) > 0 {
		req.FaceIDs = append([]string(nil), sel.FaceIDs...)
	}
	if opts.Rounded {
		req.CornerRadius = int(math.Round(float64(plan.TileSize) * cornerRadiusRatio))
	}
	showLabels := opts.ShowLabels
	req.ShowLabels = &showLabels
	return req
}

// Clamp pulls spacing and size fields into the renderer's accepted ranges
// and returns the names of the fields it changed. Sparse layouts can leave
// more padding than the renderer accepts.
func (r *RenderRequest) Clamp() []string {
	var changed []string
	clamp := func(name string, v *int, lo, hi int) {
		switch {
		case *v < lo:
			*v = lo
		case *v > hi:
			*v = hi
		default:
			return
		}
		changed = append(changed, name)
	}

	clamp("tile_size", &r.TileSize, MinTileSize, MaxTileSize)
	clamp("columns", &r.Columns, 1, MaxColumns)
	clamp("padding_x", &r.PaddingX, 0, MaxPadding)
	clamp("padding_y", &r.PaddingY, 0, MaxPadding)
	clamp("margin", &r.Margin, 0, MaxMargin)
	clamp("corner_radius", &r.CornerRadius, 0, MaxCornerRadius)
	return changed
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func requestValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks the request against the renderer's contract. The returned
// error wraps ErrInvalidRequest and lists every offending field.
func (r RenderRequest) Validate() error {
	err := requestValidator().Struct(r)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	sort.Strings(msgs)
	return fmt.Errorf("%w: %s", ErrInvalidRequest, strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", field, fe.Param(), fmt.Sprint(fe.Value()))
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
