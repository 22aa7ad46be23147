package openfoods

import (
	"bytes"
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/openfoods/openfoods/internal/domain"
)

var (
	errNullBody = errors.New("response body is null")

	payloadValidator = validator.New(validator.WithRequiredStructEnabled())
)

// foodPayload mirrors a list entry on the wire. Pointers distinguish a
// missing field from a zero value; every field is required.
type foodPayload struct {
	ID              *int       `json:"id" validate:"required"`
	Name            *string    `json:"name" validate:"required"`
	IsLiked         *bool      `json:"isLiked" validate:"required"`
	PhotoURL        *string    `json:"photoURL" validate:"required,url"`
	Description     *string    `json:"description" validate:"required"`
	CountryOfOrigin *string    `json:"countryOfOrigin" validate:"required"`
	LastUpdatedDate *time.Time `json:"lastUpdatedDate" validate:"required"`
}

// likeResponse is the body of a like/unlike reply.
type likeResponse struct {
	Success *bool `json:"success" validate:"required"`
}

func (p foodPayload) toDomain() domain.Food {
	return domain.Food{
		ID:              *p.ID,
		Name:            *p.Name,
		IsLiked:         *p.IsLiked,
		PhotoURL:        *p.PhotoURL,
		Description:     *p.Description,
		CountryOfOrigin: *p.CountryOfOrigin,
		LastUpdatedDate: *p.LastUpdatedDate,
	}
}

// decodeFoods decodes a JSON array of foods. Any malformed entry fails the
// whole list.
func decodeFoods(body []byte) ([]domain.Food, error) {
	if isNull(body) {
		return nil, errNullBody
	}

	var payloads []foodPayload
	if err := json.Unmarshal(body, &payloads); err != nil {
		return nil, err
	}

	foods := make([]domain.Food, 0, len(payloads))
	for _, p := range payloads {
		if err := payloadValidator.Struct(p); err != nil {
			return nil, err
		}
		foods = append(foods, p.toDomain())
	}
	return foods, nil
}

// decodeSuccess decodes {"success": bool}.
func decodeSuccess(body []byte) (bool, error) {
	if isNull(body) {
		return false, errNullBody
	}

	var resp likeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, err
	}
	if err := payloadValidator.Struct(resp); err != nil {
		return false, err
	}
	return *resp.Success, nil
}

func isNull(body []byte) bool {
	return bytes.Equal(bytes.TrimSpace(body), []byte("null"))
}
