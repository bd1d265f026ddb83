package contentstore

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pantrychef/v2/internal/domain/pantry"
	"github.com/pantrychef/v2/internal/ports/outbound"
	"go.uber.org/zap"
)

// PantryStore implements outbound.PantryStore against the content backend
type PantryStore struct {
	client *Client
	logger *zap.Logger
}

// NewPantryStore creates a new pantry store
func NewPantryStore(client *Client, logger *zap.Logger) outbound.PantryStore {
	return &PantryStore{
		client: client,
		logger: logger.Named("pantry-store"),
	}
}

type wirePantryItem struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	Quantity  string    `json:"quantity"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func (w *wirePantryItem) toDomain(ownerID string) *pantry.Item {
	return &pantry.Item{
		ID:        strconv.Itoa(w.ID),
		OwnerID:   ownerID,
		Name:      w.Name,
		Quantity:  w.Quantity,
		ImageURL:  w.ImageURL,
		CreatedAt: w.CreatedAt,
	}
}

// ListByOwner returns the owner's pantry items, newest first
func (s *PantryStore) ListByOwner(ctx context.Context, ownerID string) ([]*pantry.Item, error) {
	path := "/api/pantry-items?filters[owner][id][$eq]=" + url.QueryEscape(ownerID) +
		"&sort=createdAt:desc"

	var out struct {
		Data []wirePantryItem `json:"data"`
	}
	if err := s.client.do(ctx, "GET", path, nil, &out); err != nil {
		return nil, err
	}

	items := make([]*pantry.Item, len(out.Data))
	for i := range out.Data {
		items[i] = out.Data[i].toDomain(ownerID)
	}
	return items, nil
}

// Create persists one pantry item
func (s *PantryStore) Create(ctx context.Context, item *pantry.Item) (*pantry.Item, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"name":     item.Name,
			"quantity": item.Quantity,
			"imageUrl": item.ImageURL,
			"owner":    item.OwnerID,
		},
	}

	var out struct {
		Data wirePantryItem `json:"data"`
	}
	if err := s.client.do(ctx, "POST", "/api/pantry-items", payload, &out); err != nil {
		return nil, err
	}
	return out.Data.toDomain(item.OwnerID), nil
}

// Update changes an item's name and quantity
func (s *PantryStore) Update(ctx context.Context, id string, name, quantity string) (*pantry.Item, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"name":     name,
			"quantity": quantity,
		},
	}

	var out struct {
		Data wirePantryItem `json:"data"`
	}
	if err := s.client.do(ctx, "PUT", "/api/pantry-items/"+url.PathEscape(id), payload, &out); err != nil {
		return nil, err
	}
	return out.Data.toDomain(""), nil
}

// Delete removes an item
func (s *PantryStore) Delete(ctx context.Context, id string) error {
	return s.client.do(ctx, "DELETE", "/api/pantry-items/"+url.PathEscape(id), nil, nil)
}
