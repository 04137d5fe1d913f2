package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanPadded(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		h, w   int
		target int
		want   Plan
	}{
		{
			name: "half pixel width rounds to even and pads right",
			h:    100, w: 57, target: 50,
			want: Plan{Height: 100, Width: 57, ResizedWidth: 28, LeftPad: 0, RightPad: 1, OutputWidth: 29, OutputHeight: 50},
		},
		{
			name: "exact proportional width needs no padding",
			h:    50, w: 200, target: 25,
			want: Plan{Height: 50, Width: 200, ResizedWidth: 100, OutputWidth: 100, OutputHeight: 25},
		},
		{
			name: "fractional width below half",
			h:    3, w: 10, target: 2,
			want: Plan{Height: 3, Width: 10, ResizedWidth: 7, LeftPad: 0, RightPad: 1, OutputWidth: 8, OutputHeight: 2},
		},
		{
			name: "very narrow image keeps at least one column",
			h:    1000, w: 1, target: 10,
			want: Plan{Height: 1000, Width: 1, ResizedWidth: 1, LeftPad: 0, RightPad: 1, OutputWidth: 2, OutputHeight: 10},
		},
		{
			name: "already at target height",
			h:    48, w: 311, target: 48,
			want: Plan{Height: 48, Width: 311, ResizedWidth: 311, OutputWidth: 311, OutputHeight: 48},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := PlanPadded(tt.h, tt.w, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPlanPaddedInvariants(t *testing.T) {
	t.Parallel()

	for _, target := range []int{1, 7, 32, 48} {
		for h := 1; h <= 60; h++ {
			for w := 1; w <= 60; w++ {
				p, err := PlanPadded(h, w, target)
				require.NoError(t, err)

				scaled := float64(w*target) / float64(h)
				total := math.Ceil(scaled) - scaled

				assert.Equal(t, target, p.OutputHeight)
				assert.Equal(t, p.ResizedWidth+p.LeftPad+p.RightPad, p.OutputWidth)
				assert.GreaterOrEqual(t, p.ResizedWidth, 1)
				assert.GreaterOrEqual(t, p.LeftPad, 0)
				assert.GreaterOrEqual(t, p.RightPad, 0)
				assert.GreaterOrEqual(t, float64(p.LeftPad+p.RightPad), total)

				again, err := PlanPadded(p.OutputHeight, p.OutputWidth, target)
				require.NoError(t, err)
				assert.True(t, again.Identity(), "re-planning %v should be the identity, got %v", p, again)
			}
		}
	}
}

func TestPlanExactScale(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		h, w, target int
		wantW, wantH int
	}{
		{name: "reduces by common factor", h: 96, w: 64, target: 48, wantW: 32, wantH: 48},
		{name: "coprime sides keep original size", h: 100, w: 57, target: 50, wantW: 57, wantH: 100},
		{name: "upscales by integer multiple", h: 10, w: 20, target: 48, wantW: 96, wantH: 48},
		{name: "overshoots target to stay proportional", h: 30, w: 20, target: 40, wantW: 28, wantH: 42},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := PlanExactScale(tt.h, tt.w, tt.target)
			require.NoError(t, err)
			assert.Equal(t, tt.wantW, p.OutputWidth)
			assert.Equal(t, tt.wantH, p.OutputHeight)
			assert.False(t, p.Padded())
			assert.GreaterOrEqual(t, p.OutputHeight, tt.target)
			assert.Equal(t, p.OutputWidth*tt.h, p.OutputHeight*tt.w, "scale must be exact")
		})
	}
}

func TestPlanRejectsInvalidDimensions(t *testing.T) {
	t.Parallel()

	for _, dims := range [][3]int{{0, 10, 10}, {10, 0, 10}, {10, 10, 0}, {-1, 5, 5}} {
		_, err := PlanPadded(dims[0], dims[1], dims[2])
		assert.ErrorIs(t, err, ErrInvalidDimensions)

		_, err = PlanExactScale(dims[0], dims[1], dims[2])
		assert.ErrorIs(t, err, ErrInvalidDimensions)
	}
}
