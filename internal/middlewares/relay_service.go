package middlewares

import (
	"context"
	"encoding/json"
	"oauth-relay/internal/models"
)

//go:generate mockgen -source=relay_service.go -destination=../mocks/relay_service.go -package=mocks

type RelayService interface {
	Exchange(ctx context.Context, code string) (string, *models.Profile, error)
	Resources(ctx context.Context, sessionToken string) ([]json.RawMessage, error)
	Claims(ctx context.Context, sessionToken string) (*models.SessionClaims, error)
}
