package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionCreate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	start := time.Now().Truncate(time.Second)
	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/promotions"), map[string]any{
		"title":           "Spring Sale",
		"description":     "20% off everything",
		"discountPercent": 20,
		"channels":        []string{"email", "sms"},
		"startsAt":        start.Format(time.RFC3339),
		"endsAt":          start.Add(7 * 24 * time.Hour).Format(time.RFC3339),
		"active":          true,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var promo domain.Promotion
	testutil.AssertJSONResponse(t, resp, &promo)
	assert.Equal(t, "Spring Sale", promo.Title)
	assert.Equal(t, 20, promo.DiscountPercent)
	assert.JSONEq(t, `["email","sms"]`, string(promo.Channels))
}

func TestPromotionValidation(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"discount above 100", map[string]any{"title": "Too much", "discountPercent": 150}},
		{"unknown channel", map[string]any{"title": "Odd channel", "discountPercent": 10, "channels": []string{"carrier_pigeon"}}},
		{"missing title", map[string]any{"discountPercent": 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/promotions"), tt.body)
			defer resp.Body.Close()
			testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
		})
	}
}

func TestPromotionUpdate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/promotions"), map[string]any{
		"title":           "Launch",
		"discountPercent": 10,
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)
	var promo domain.Promotion
	testutil.AssertJSONResponse(t, resp, &promo)
	resp.Body.Close()

	resp = testutil.DoJSON(t, client, http.MethodPut, ts.APIURL("/promotions/"+promo.ID.String()), map[string]any{
		"title":           "Launch Week",
		"discountPercent": 15,
		"active":          true,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var updated domain.Promotion
	testutil.AssertJSONResponse(t, resp, &updated)
	require.Equal(t, promo.ID, updated.ID)
	assert.Equal(t, "Launch Week", updated.Title)
	assert.True(t, updated.Active)
}
