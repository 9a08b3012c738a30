package infrastructure

import (
	"context"

	"github.com/google/uuid"

	"github.com/mateusmacedo/go-bff/pkg/application"
)

func GenerateUUID() string {
	return uuid.New().String()
}

func LogError(ctx context.Context, logger application.AppLogger, message string, err error, fields map[string]interface{}) {
	application.LogError(ctx, logger, message, err, fields)
}

func LogInfo(ctx context.Context, logger application.AppLogger, message string, fields map[string]interface{}) {
	application.LogInfo(ctx, logger, message, fields)
}

func LogDebug(ctx context.Context, logger application.AppLogger, message string, fields map[string]interface{}) {
	application.LogDebug(ctx, logger, message, fields)
}
