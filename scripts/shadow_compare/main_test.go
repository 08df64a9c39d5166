package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrapData(t *testing.T) {
	data, err := unwrapData([]byte(`{"data":[{"id":"a"}],"meta":{"cache_hit":false}}`))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"a"}]`, string(data))

	_, err = unwrapData([]byte(`{"error":{"code":"NOT_FOUND"}}`))
	assert.Error(t, err)
}

func TestBodiesEqualToleratesRounding(t *testing.T) {
	goBody := []byte(`[{"id":"a","averageQuality":4.3}]`)
	legacy := []byte(`[{"id":"a","averageQuality":4.333333}]`)

	assert.True(t, bodiesEqual(goBody, legacy, "", 0.05))
	assert.False(t, bodiesEqual(goBody, legacy, "", 0))
}

func TestBodiesEqualSortsByKey(t *testing.T) {
	a := []byte(`[{"id":"b","totalRatings":1},{"id":"a","totalRatings":0}]`)
	b := []byte(`[{"id":"a","totalRatings":0},{"id":"b","totalRatings":1}]`)

	assert.False(t, bodiesEqual(a, b, "", 0))
	assert.True(t, bodiesEqual(a, b, "id", 0))
}

func TestBodiesEqualDetectsMissingField(t *testing.T) {
	a := []byte(`{"id":"a","mode":"Online"}`)
	b := []byte(`{"id":"a"}`)
	assert.False(t, bodiesEqual(a, b, "", 0))
}
