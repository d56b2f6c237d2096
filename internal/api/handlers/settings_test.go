package handlers_test

import (
	"net/http"
	"testing"

	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsUpsertAndGet(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	// Create
	resp := testutil.DoJSON(t, client, http.MethodPut, ts.APIURL("/settings/business.hours"), map[string]string{
		"open":  "09:00",
		"close": "17:00",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	// Overwrite
	resp = testutil.DoJSON(t, client, http.MethodPut, ts.APIURL("/settings/business.hours"), map[string]string{
		"open":  "08:00",
		"close": "18:00",
	})
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	resp, err := client.Get(ts.APIURL("/settings/business.hours"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var setting domain.Setting
	testutil.AssertJSONResponse(t, resp, &setting)
	assert.Equal(t, "business.hours", setting.Key)
	assert.JSONEq(t, `{"open":"08:00","close":"18:00"}`, string(setting.Value))
}

func TestSettingsDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.DoJSON(t, client, http.MethodPut, ts.APIURL("/settings/tax.rate"), 8.25)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	resp = testutil.DoJSON(t, client, http.MethodDelete, ts.APIURL("/settings/tax.rate"), nil)
	testutil.AssertStatusCode(t, resp, http.StatusOK)
	resp.Body.Close()

	resp, err := client.Get(ts.APIURL("/settings/tax.rate"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestSettingsGetUnknownKey(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp, err := client.Get(ts.APIURL("/settings/never.set"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}
