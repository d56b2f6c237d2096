package service_test

import (
	"context"
	"testing"

	"github.com/ray/bizdesk/internal/domain"
	"github.com/ray/bizdesk/internal/repository/postgres"
	"github.com/ray/bizdesk/internal/service"
	"github.com/ray/bizdesk/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInvoiceService(t *testing.T) (*service.InvoiceService, *testutil.TestDB) {
	t.Helper()
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	return service.NewInvoiceService(repos.Invoice, repos.Customer), testDB
}

func TestInvoiceCreateComputesTotal(t *testing.T) {
	svc, testDB := newInvoiceService(t)
	ctx := context.Background()

	customer := testutil.NewCustomerBuilder().Build(t, testDB.DB)

	invoice, err := svc.Create(ctx, service.InvoiceInput{
		CustomerID: customer.ID,
		Items: []domain.InvoiceItem{
			{Description: "Haircut", Quantity: 1, UnitCents: 3500},
			{Description: "Conditioner", Quantity: 2, UnitCents: 1250},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, int64(6000), invoice.TotalCents)
	assert.Equal(t, domain.InvoiceDraft, invoice.Status)
	assert.NotEmpty(t, invoice.Number)
}

func TestInvoiceCreateRejectsBadItems(t *testing.T) {
	svc, testDB := newInvoiceService(t)
	ctx := context.Background()

	customer := testutil.NewCustomerBuilder().Build(t, testDB.DB)

	_, err := svc.Create(ctx, service.InvoiceInput{CustomerID: customer.ID})
	assert.ErrorIs(t, err, domain.ErrEmptyInvoice)

	_, err = svc.Create(ctx, service.InvoiceInput{
		CustomerID: customer.ID,
		Items:      []domain.InvoiceItem{{Description: "Nothing", Quantity: 0, UnitCents: 100}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)

	_, err = svc.Create(ctx, service.InvoiceInput{
		CustomerID: customer.ID,
		Items:      []domain.InvoiceItem{{Description: "Refund?", Quantity: 1, UnitCents: -100}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidItem)
}

func TestInvoiceStatusTransitions(t *testing.T) {
	svc, testDB := newInvoiceService(t)
	ctx := context.Background()

	customer := testutil.NewCustomerBuilder().Build(t, testDB.DB)
	items := []domain.InvoiceItem{{Description: "Service", Quantity: 1, UnitCents: 5000}}

	invoice, err := svc.Create(ctx, service.InvoiceInput{CustomerID: customer.ID, Items: items})
	require.NoError(t, err)

	// draft -> paid skips sent
	_, err = svc.SetStatus(ctx, invoice.ID, domain.InvoicePaid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	invoice, err = svc.SetStatus(ctx, invoice.ID, domain.InvoiceSent)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoiceSent, invoice.Status)

	invoice, err = svc.SetStatus(ctx, invoice.ID, domain.InvoicePaid)
	require.NoError(t, err)
	assert.Equal(t, domain.InvoicePaid, invoice.Status)

	// paid is terminal
	_, err = svc.SetStatus(ctx, invoice.ID, domain.InvoiceVoid)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestInvoiceUpdateItemsDraftOnly(t *testing.T) {
	svc, testDB := newInvoiceService(t)
	ctx := context.Background()

	customer := testutil.NewCustomerBuilder().Build(t, testDB.DB)
	items := []domain.InvoiceItem{{Description: "Service", Quantity: 1, UnitCents: 5000}}

	invoice, err := svc.Create(ctx, service.InvoiceInput{CustomerID: customer.ID, Items: items})
	require.NoError(t, err)

	updated, err := svc.UpdateItems(ctx, invoice.ID, []domain.InvoiceItem{
		{Description: "Service", Quantity: 2, UnitCents: 5000},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10000), updated.TotalCents)

	_, err = svc.SetStatus(ctx, invoice.ID, domain.InvoiceSent)
	require.NoError(t, err)

	_, err = svc.UpdateItems(ctx, invoice.ID, items)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "sent invoices are immutable")
}

func TestInvoiceListByCustomer(t *testing.T) {
	svc, testDB := newInvoiceService(t)
	ctx := context.Background()

	alice := testutil.NewCustomerBuilder().Build(t, testDB.DB)
	bob := testutil.NewCustomerBuilder().Build(t, testDB.DB)
	items := []domain.InvoiceItem{{Description: "Service", Quantity: 1, UnitCents: 100}}

	_, err := svc.Create(ctx, service.InvoiceInput{CustomerID: alice.ID, Items: items})
	require.NoError(t, err)
	_, err = svc.Create(ctx, service.InvoiceInput{CustomerID: alice.ID, Items: items})
	require.NoError(t, err)
	_, err = svc.Create(ctx, service.InvoiceInput{CustomerID: bob.ID, Items: items})
	require.NoError(t, err)

	all, err := svc.GetAll(ctx, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	forAlice, err := svc.GetAll(ctx, &alice.ID)
	require.NoError(t, err)
	assert.Len(t, forAlice, 2)
}
