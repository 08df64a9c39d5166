package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	"github.com/alifhakimiazwan/RateMyCitra/internal/service"
)

func TestReadCitras(t *testing.T) {
	input := "courseCode,name,faculty,citraType\nCITRA3001,Design Thinking,FTSM,Entrepreneurship\nLMCE1032,Bahasa Jepun,PPBKA,Language\n"

	citras, err := readCitras(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, citras, 2)
	assert.Equal(t, "Design Thinking", citras[0].Name)
	assert.Equal(t, "CITRA3001", citras[0].CourseCode)
	assert.Equal(t, "Entrepreneurship", citras[0].CitraType)
	assert.Equal(t, "FTSM", citras[0].Faculty)
	assert.Equal(t, "LMCE1032", citras[1].CourseCode)
}

func TestReadCitrasRejectsHeaderOnly(t *testing.T) {
	_, err := readCitras(strings.NewReader("name,courseCode,citraType,faculty\n"))
	assert.ErrorIs(t, err, errEmptyFile)
}

func TestReadCitrasRequiresColumns(t *testing.T) {
	_, err := readCitras(strings.NewReader("name,faculty\nDesign Thinking,FTSM\n"))
	assert.Error(t, err)
}

func TestParseRole(t *testing.T) {
	role, err := parseRole(" admin ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, role)

	_, err = parseRole("lecturer")
	assert.Error(t, err)
}

type stubBulkCreator struct {
	err error
}

func (s stubBulkCreator) BulkCreate(_ context.Context, reqs []dto.CreateCitraRequest) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(reqs), nil
}

type recordingCache struct {
	patterns []string
	err      error
}

func (r *recordingCache) DeleteByPattern(_ context.Context, pattern string) (int, error) {
	r.patterns = append(r.patterns, pattern)
	return 3, r.err
}

func TestImportCitrasClearsCachedListings(t *testing.T) {
	listings := &recordingCache{}
	citras := []dto.CreateCitraRequest{{Name: "Design Thinking", CourseCode: "CITRA3001", CitraType: "Entrepreneurship", Faculty: "FTSM"}}

	inserted, err := importCitras(context.Background(), stubBulkCreator{}, listings, citras, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
	assert.Equal(t, []string{service.CitraCachePattern}, listings.patterns)
}

func TestImportCitrasSkipsCacheOnFailure(t *testing.T) {
	listings := &recordingCache{}
	_, err := importCitras(context.Background(), stubBulkCreator{err: errors.New("duplicate")}, listings, nil, zap.NewNop())
	assert.Error(t, err)
	assert.Empty(t, listings.patterns)
}

func TestImportCitrasToleratesCacheErrors(t *testing.T) {
	listings := &recordingCache{err: errors.New("redis down")}
	citras := []dto.CreateCitraRequest{{Name: "Bahasa Jepun", CourseCode: "LMCE1032", CitraType: "Language", Faculty: "PPBKA"}}

	inserted, err := importCitras(context.Background(), stubBulkCreator{}, listings, citras, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	inserted, err = importCitras(context.Background(), stubBulkCreator{}, nil, citras, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)
}
