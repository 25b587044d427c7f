package main

import (
	"bytes"
	"testing"
	"time"

	"photorestore/internal/billing"
	"photorestore/internal/domain"
)

func TestPrintCounts(t *testing.T) {
	var buf bytes.Buffer
	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	printCounts(&buf, since, []billing.TypeCount{
		{Type: domain.BillingPaymentSucceeded, Count: 4},
		{Type: "invoice.voided", Count: 1},
	})

	want := "Billing events since 2026-05-01T00:00:00Z\n" +
		"payment.succeeded           4\n" +
		"invoice.voided (unhandled)  1\n" +
		"total                       5\n"
	if buf.String() != want {
		t.Fatalf("printCounts output:\n%q\nwant:\n%q", buf.String(), want)
	}
}

func TestPrintCountsEmpty(t *testing.T) {
	var buf bytes.Buffer
	printCounts(&buf, time.Unix(0, 0).UTC(), nil)
	if want := "Billing events since 1970-01-01T00:00:00Z\n(none)\n"; buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}
