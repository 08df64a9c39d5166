package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/alifhakimiazwan/RateMyCitra/internal/dto"
	"github.com/alifhakimiazwan/RateMyCitra/internal/models"
	"github.com/alifhakimiazwan/RateMyCitra/internal/service"
	"github.com/alifhakimiazwan/RateMyCitra/pkg/tabular"
)

var csvColumns = []string{"name", "courseCode", "citraType", "faculty"}

var errEmptyFile = errors.New("csv has no data rows")

type bulkCreator interface {
	BulkCreate(ctx context.Context, reqs []dto.CreateCitraRequest) (int, error)
}

type listingCache interface {
	DeleteByPattern(ctx context.Context, pattern string) (int, error)
}

// importCitras inserts citras and clears the API's cached listings so the new
// subjects show up immediately. A cache failure is logged and the insert
// count is still returned.
func importCitras(ctx context.Context, svc bulkCreator, listings listingCache, citras []dto.CreateCitraRequest, logger *zap.Logger) (int, error) {
	inserted, err := svc.BulkCreate(ctx, citras)
	if err != nil {
		return 0, err
	}
	if listings == nil {
		return inserted, nil
	}
	deleted, err := listings.DeleteByPattern(ctx, service.CitraCachePattern)
	if err != nil {
		logger.Warn("clear cached listings", zap.Error(err))
		return inserted, nil
	}
	logger.Info("cached listings cleared", zap.Int("keys", deleted))
	return inserted, nil
}

// readCitras converts CSV rows into insert requests.
func readCitras(r io.Reader) ([]dto.CreateCitraRequest, error) {
	data, err := tabular.ParseCSV(r, csvColumns...)
	if err != nil {
		return nil, err
	}
	if len(data.Rows) == 0 {
		return nil, errEmptyFile
	}
	return lo.Map(data.Rows, func(row map[string]string, _ int) dto.CreateCitraRequest {
		return dto.CreateCitraRequest{
			Name:       row["name"],
			CourseCode: row["courseCode"],
			CitraType:  row["citraType"],
			Faculty:    row["faculty"],
		}
	}), nil
}

func parseRole(raw string) (models.UserRole, error) {
	role := models.UserRole(strings.ToUpper(strings.TrimSpace(raw)))
	if !lo.Contains([]models.UserRole{models.RoleStudent, models.RoleAdmin}, role) {
		return "", fmt.Errorf("unknown role %q", raw)
	}
	return role, nil
}
