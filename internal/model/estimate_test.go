package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimate(t *testing.T) {
	cat := NewCatalog(
		ParseShape([]string{"###", "##.", "##."}),
		ParseShape([]string{"##"}),
	)

	est := Estimate(NewRegion("", 4, 4, 2, 1), cat)

	assert.Equal(t, 16, est.Area)
	assert.Equal(t, 16, est.RequiredCells)
	assert.Equal(t, 3, est.Pieces)
	assert.Equal(t, 0, est.Slack)
	assert.True(t, est.Fits())
	assert.InDelta(t, 100.0, est.FillPercent, 0.001)
}

func TestEstimate_Overfull(t *testing.T) {
	cat := NewCatalog(ParseShape([]string{"###", "###"}))

	est := Estimate(NewRegion("", 3, 3, 2), cat)

	assert.Equal(t, -3, est.Slack)
	assert.False(t, est.Fits())
}

func TestEstimate_ZeroArea(t *testing.T) {
	est := Estimate(Region{}, nil)
	assert.Equal(t, 0.0, est.FillPercent)
	assert.True(t, est.Fits())
}
