package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductCreate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/products"), map[string]any{
		"name":       "Shampoo",
		"sku":        "SHMP-001",
		"priceCents": 1299,
		"stock":      25,
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var product domain.Product
	testutil.AssertJSONResponse(t, resp, &product)
	assert.Equal(t, "SHMP-001", product.SKU)
	assert.Equal(t, 25, product.Stock)
}

func TestProductDuplicateSKU(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	testutil.NewProductBuilder().WithSKU("DUP-001").Build(t, ts.DB.DB)

	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/products"), map[string]any{
		"name":       "Another",
		"sku":        "DUP-001",
		"priceCents": 500,
	})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "sku already exists")
}

func TestProductAdjustStock(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	product := testutil.NewProductBuilder().WithStock(5).Build(t, ts.DB.DB)
	url := ts.APIURL("/products/" + product.ID.String() + "/stock")

	// Receiving a delivery
	resp := testutil.DoJSON(t, client, http.MethodPost, url, map[string]int{"delta": 10})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var got domain.Product
	testutil.AssertJSONResponse(t, resp, &got)
	resp.Body.Close()
	assert.Equal(t, 15, got.Stock)

	// Selling some
	resp = testutil.DoJSON(t, client, http.MethodPost, url, map[string]int{"delta": -15})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	testutil.AssertJSONResponse(t, resp, &got)
	resp.Body.Close()
	assert.Equal(t, 0, got.Stock)

	// Stock can never go negative
	resp = testutil.DoJSON(t, client, http.MethodPost, url, map[string]int{"delta": -1})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusConflict, "insufficient stock")

	fresh, err := ts.Repos.Product.GetByID(t.Context(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, fresh.Stock, "failed adjustment must not change stock")
}

func TestProductAdjustStockZeroDelta(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	product := testutil.NewProductBuilder().Build(t, ts.DB.DB)

	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/products/"+product.ID.String()+"/stock"), map[string]int{"delta": 0})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusBadRequest)
}
