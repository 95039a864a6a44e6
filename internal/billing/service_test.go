package billing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewInMemoryRepository(), nil, nil)
}

func createTestInvoice(t *testing.T, svc *Service) *InvoiceDetail {
	t.Helper()
	detail, err := svc.CreateInvoice(context.Background(), &CreateInvoiceRequest{
		PatientID:       "patient-1",
		DiscountPercent: 10,
		TaxPercent:      5,
		Items: []ItemInput{
			{Description: "Root canal", Quantity: 1, UnitPriceCents: 20000},
			{Description: "Crown", Quantity: 1, UnitPriceCents: 30000},
		},
	})
	require.NoError(t, err)
	return detail
}

func TestService_CreateInvoice(t *testing.T) {
	svc := newTestService(t)

	detail := createTestInvoice(t, svc)

	assert.Equal(t, StatusIssued, detail.Invoice.Status)
	assert.Equal(t, int64(50000), detail.Invoice.TotalAmountCents)
	assert.Equal(t, int64(5000), detail.Invoice.DiscountAmountCents)
	assert.Equal(t, int64(2250), detail.Invoice.TaxAmountCents)
	assert.Equal(t, int64(47250), detail.Invoice.FinalAmountCents)
	assert.Len(t, detail.Items, 2)
	assert.NotEmpty(t, detail.Invoice.IssueDate)
}

func TestService_CreateInvoice_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *CreateInvoiceRequest
		want error
	}{
		{
			"missing patient",
			&CreateInvoiceRequest{Items: []ItemInput{{Quantity: 1, UnitPriceCents: 100}}},
			ErrMissingPatient,
		},
		{
			"no items",
			&CreateInvoiceRequest{PatientID: "p1"},
			ErrNoItems,
		},
		{
			"zero quantity",
			&CreateInvoiceRequest{PatientID: "p1", Items: []ItemInput{{Quantity: 0, UnitPriceCents: 100}}},
			ErrInvalidQuantity,
		},
		{
			"negative price",
			&CreateInvoiceRequest{PatientID: "p1", Items: []ItemInput{{Quantity: 1, UnitPriceCents: -1}}},
			ErrInvalidUnitPrice,
		},
		{
			"discount above 100",
			&CreateInvoiceRequest{PatientID: "p1", DiscountPercent: 101, Items: []ItemInput{{Quantity: 1, UnitPriceCents: 100}}},
			ErrInvalidPercent,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateInvoice(ctx, tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestService_RecordPayment_PartialThenFull(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	detail, err := svc.RecordPayment(ctx, detail.Invoice.ID, &RecordPaymentRequest{AmountCents: 20000, Method: MethodCash})
	require.NoError(t, err)
	assert.Equal(t, StatusPartiallyPaid, detail.Invoice.Status)

	remaining, err := svc.Remaining(ctx, detail.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(27250), remaining)

	detail, err = svc.RecordPayment(ctx, detail.Invoice.ID, &RecordPaymentRequest{AmountCents: 27250, Method: MethodCreditCard})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, detail.Invoice.Status)
	assert.Len(t, detail.Payments, 2)

	remaining, err = svc.Remaining(ctx, detail.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining)
}

func TestService_RecordPayment_Overpayment(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	detail, err := svc.RecordPayment(ctx, detail.Invoice.ID, &RecordPaymentRequest{AmountCents: 60000})
	require.NoError(t, err)

	assert.Equal(t, StatusPaid, detail.Invoice.Status)

	remaining, err := svc.Remaining(ctx, detail.Invoice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), remaining, "overpayment must not produce a negative balance")
}

func TestService_RecordPayment_PaidStaysPaid(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	_, err := svc.RecordPayment(ctx, detail.Invoice.ID, &RecordPaymentRequest{AmountCents: 47250})
	require.NoError(t, err)

	// A later small payment must not demote the invoice.
	detail, err = svc.RecordPayment(ctx, detail.Invoice.ID, &RecordPaymentRequest{AmountCents: 100})
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, detail.Invoice.Status)
}

func TestService_RecordPayment_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	_, err := svc.RecordPayment(ctx, detail.Invoice.ID, &RecordPaymentRequest{AmountCents: 0})
	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)

	_, err = svc.RecordPayment(ctx, detail.Invoice.ID, &RecordPaymentRequest{AmountCents: -500})
	assert.ErrorIs(t, err, ErrInvalidPaymentAmount)

	_, err = svc.RecordPayment(ctx, "missing", &RecordPaymentRequest{AmountCents: 100})
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}

func TestService_AddItem_RecomputesTotals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	detail, err := svc.AddItem(ctx, detail.Invoice.ID, &ItemInput{
		Description:    "X-ray",
		Quantity:       2,
		UnitPriceCents: 5000,
	})
	require.NoError(t, err)

	assert.Len(t, detail.Items, 3)
	assert.Equal(t, int64(60000), detail.Invoice.TotalAmountCents)
	assert.Equal(t, int64(6000), detail.Invoice.DiscountAmountCents)
	assert.Equal(t, int64(2700), detail.Invoice.TaxAmountCents)
	assert.Equal(t, int64(56700), detail.Invoice.FinalAmountCents)
}

func TestService_RemoveItem_RecomputesTotals(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	detail, err := svc.RemoveItem(ctx, detail.Invoice.ID, detail.Items[0].ID)
	require.NoError(t, err)

	assert.Len(t, detail.Items, 1)
	assert.Equal(t, int64(30000), detail.Invoice.TotalAmountCents)
	assert.Equal(t, int64(3000), detail.Invoice.DiscountAmountCents)
	assert.Equal(t, int64(1350), detail.Invoice.TaxAmountCents)
	assert.Equal(t, int64(28350), detail.Invoice.FinalAmountCents)
}

func TestService_ItemEdit_NeverChangesStatus(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	// Partial payment, then shrink the invoice below what was paid.
	detail, err := svc.RecordPayment(ctx, detail.Invoice.ID, &RecordPaymentRequest{AmountCents: 30000})
	require.NoError(t, err)
	require.Equal(t, StatusPartiallyPaid, detail.Invoice.Status)

	detail, err = svc.RemoveItem(ctx, detail.Invoice.ID, detail.Items[1].ID)
	require.NoError(t, err)

	// Totals dropped below the amount paid, but item edits never touch the
	// status; only a payment triggers reconciliation.
	assert.Less(t, detail.Invoice.FinalAmountCents, int64(30000))
	assert.Equal(t, StatusPartiallyPaid, detail.Invoice.Status)
}

func TestService_UpdateInvoice_PercentChangeRecomputes(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	zero := 0.0
	detail, err := svc.UpdateInvoice(ctx, detail.Invoice.ID, &UpdateInvoiceRequest{
		DiscountPercent: &zero,
		TaxPercent:      &zero,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(50000), detail.Invoice.FinalAmountCents)
}

func TestService_UpdateItem_ChangesLineAmount(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	detail, err := svc.UpdateItem(ctx, detail.Invoice.ID, detail.Items[0].ID, &ItemInput{
		Description:     "Root canal (revised)",
		Quantity:        2,
		UnitPriceCents:  20000,
		DiscountPercent: 25,
	})
	require.NoError(t, err)

	// New line amount: 2 × 200.00 at 25% off = 300.00.
	assert.Equal(t, int64(30000), detail.Items[0].AmountCents)
	assert.Equal(t, int64(60000), detail.Invoice.TotalAmountCents)
}

func TestService_ListInvoices(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	createTestInvoice(t, svc)
	_, err := svc.CreateInvoice(ctx, &CreateInvoiceRequest{
		PatientID: "patient-2",
		Items:     []ItemInput{{Quantity: 1, UnitPriceCents: 100}},
	})
	require.NoError(t, err)

	all, err := svc.ListInvoices(ctx, ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byPatient, err := svc.ListInvoices(ctx, ListFilter{PatientID: "patient-2"})
	require.NoError(t, err)
	assert.Len(t, byPatient, 1)

	_, err = svc.ListInvoices(ctx, ListFilter{Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)
}

func TestService_DeleteInvoice(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	detail := createTestInvoice(t, svc)

	require.NoError(t, svc.DeleteInvoice(ctx, detail.Invoice.ID))

	_, err := svc.GetInvoice(ctx, detail.Invoice.ID)
	assert.ErrorIs(t, err, ErrInvoiceNotFound)
}
