package handlers_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentCreate(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	customer := testutil.NewCustomerBuilder().Build(t, ts.DB.DB)
	start := time.Now().Add(24 * time.Hour).Truncate(time.Second)

	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/appointments"), map[string]any{
		"customerId": customer.ID.String(),
		"title":      "Consultation",
		"startsAt":   start.Format(time.RFC3339),
		"endsAt":     start.Add(time.Hour).Format(time.RFC3339),
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusCreated)

	var appt domain.Appointment
	testutil.AssertJSONResponse(t, resp, &appt)
	assert.Equal(t, domain.AppointmentScheduled, appt.Status)
	assert.Equal(t, customer.ID, appt.CustomerID)
}

func TestAppointmentRejectsInvertedRange(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	customer := testutil.NewCustomerBuilder().Build(t, ts.DB.DB)
	start := time.Now().Add(24 * time.Hour)

	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/appointments"), map[string]any{
		"customerId": customer.ID.String(),
		"title":      "Backwards",
		"startsAt":   start.Format(time.RFC3339),
		"endsAt":     start.Add(-time.Hour).Format(time.RFC3339),
	})
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusBadRequest, "end time must be after start time")
}

func TestAppointmentUnknownCustomer(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	start := time.Now().Add(24 * time.Hour)
	resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/appointments"), map[string]any{
		"customerId": uuid.New().String(),
		"title":      "Orphan",
		"startsAt":   start.Format(time.RFC3339),
		"endsAt":     start.Add(time.Hour).Format(time.RFC3339),
	})
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusNotFound)
}

func TestAppointmentRangeQuery(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, client := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	customer := testutil.NewCustomerBuilder().Build(t, ts.DB.DB)
	base := time.Now().Truncate(time.Second)

	create := func(offset time.Duration, title string) {
		t.Helper()
		start := base.Add(offset)
		resp := testutil.DoJSON(t, client, http.MethodPost, ts.APIURL("/appointments"), map[string]any{
			"customerId": customer.ID.String(),
			"title":      title,
			"startsAt":   start.Format(time.RFC3339),
			"endsAt":     start.Add(30 * time.Minute).Format(time.RFC3339),
		})
		resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusCreated)
	}

	create(1*time.Hour, "today")
	create(48*time.Hour, "in two days")

	from := url.QueryEscape(base.Format(time.RFC3339))
	to := url.QueryEscape(base.Add(24 * time.Hour).Format(time.RFC3339))

	resp, err := client.Get(ts.APIURL(fmt.Sprintf("/appointments?from=%s&to=%s", from, to)))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusOK)

	var appointments []domain.Appointment
	testutil.AssertJSONResponse(t, resp, &appointments)
	require.Len(t, appointments, 1)
	assert.Equal(t, "today", appointments[0].Title)
}
