package usecase

import (
	"strings"

	"stackvault/internal/entity"

	"github.com/google/uuid"
)

const (
	msgMissingFields      = "Missing required fields"
	msgInvalidProductID   = "Invalid product ID"
	msgFeatureNotAccepted = "Only accepted products can be featured"
)

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func requireProductID(id string) error {
	if !validID(id) {
		return entity.Validation(msgInvalidProductID)
	}
	return nil
}

func blank(values ...string) bool {
	for _, v := range values {
		if strings.TrimSpace(v) == "" {
			return true
		}
	}
	return false
}
