package transport

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/catalog/internal/models"
)

func TestProductDetailResource_JSONShape(t *testing.T) {
	created := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC)
	p := &models.Product{
		ID:          3,
		Name:        "Widget",
		Description: "A widget",
		Price:       9.99,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Hour),
	}

	raw, err := json.Marshal(NewProductDetailResource(p))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	require.EqualValues(t, 3, got["id"])
	require.Equal(t, "Widget", got["name"])
	require.Equal(t, 9.99, got["price"])
	require.Equal(t, "2024-03-05 14:07:09", got["createdAt"])
	require.Equal(t, "2024-03-05 15:07:09", got["updatedAt"])
}

func TestProductResource_HasNoUpdatedAt(t *testing.T) {
	raw, err := json.Marshal(NewProductResource(&models.Product{ID: 1}))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	_, ok := got["updatedAt"]
	require.False(t, ok)
}

func TestUserJSON_HidesPasswordExceptOnRegister(t *testing.T) {
	u := &models.User{ID: 1, Name: "Ann", Email: "ann@example.com", PasswordHash: "$2a$hash"}

	raw, err := json.Marshal(u)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "$2a$hash")

	raw, err = json.Marshal(NewRegisteredUser(u))
	require.NoError(t, err)
	require.Contains(t, string(raw), `"password":"$2a$hash"`)
}

func TestReplaceRequestUpdate_SuppliesEveryField(t *testing.T) {
	price := 1.5
	upd := ReplaceProductRequest{Name: "n", Description: "d", Price: &price}.Update()
	require.Equal(t, "n", *upd.Name)
	require.Equal(t, "d", *upd.Description)
	require.Equal(t, 1.5, *upd.Price)
}
