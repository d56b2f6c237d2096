package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerCRUD(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	// Create
	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/customers"), map[string]string{
		"name":  "Maria Lopez",
		"email": "maria@example.com",
		"phone": "5551230000",
		"notes": "prefers morning appointments",
	})
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var created domain.Customer
	testutil.AssertJSONResponse(t, resp, &created)
	resp.Body.Close()
	assert.Equal(t, "Maria Lopez", created.Name)
	require.NotEmpty(t, created.ID)

	// Get
	resp, err := client.Get(ts.APIURL("/customers/" + created.ID.String()))
	require.NoError(t, err)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var fetched domain.Customer
	testutil.AssertJSONResponse(t, resp, &fetched)
	resp.Body.Close()
	assert.Equal(t, created.ID, fetched.ID)

	// Update
	resp = testutil.DoJSON(t, client, http.MethodPut, ts.APIURL("/customers/"+created.ID.String()), map[string]string{
		"name":  "Maria Lopez-Garcia",
		"email": "maria@example.com",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	var updated domain.Customer
	testutil.AssertJSONResponse(t, resp, &updated)
	resp.Body.Close()
	assert.Equal(t, "Maria Lopez-Garcia", updated.Name)

	// Delete
	resp = testutil.DoJSON(t, client, http.MethodDelete, ts.APIURL("/customers/"+created.ID.String()), nil)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	resp, err = client.Get(ts.APIURL("/customers/" + created.ID.String()))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestCustomerSearch(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	testutil.NewCustomerBuilder().WithName("Anna Smith").WithEmail("anna@example.com").Build(t, ts.DB.DB)
	testutil.NewCustomerBuilder().WithName("Bernard Jones").WithEmail("bernard@example.com").Build(t, ts.DB.DB)

	resp, err := client.Get(ts.APIURL("/customers?q=anna"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var results []domain.Customer
	testutil.AssertJSONResponse(t, resp, &results)
	require.Len(t, results, 1)
	assert.Equal(t, "Anna Smith", results[0].Name)

	// No filter returns everyone.
	all, err := client.Get(ts.APIURL("/customers"))
	require.NoError(t, err)
	defer all.Body.Close()
	var everyone []domain.Customer
	testutil.AssertJSONResponse(t, all, &everyone)
	assert.Len(t, everyone, 2)
}

func TestCustomerRequiresAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)
	client := testutil.NewCookieClient(t)

	resp, err := client.Get(ts.APIURL("/customers"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}
