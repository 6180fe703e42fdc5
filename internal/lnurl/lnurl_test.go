package lnurl

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestEndpoint(t *testing.T) {
	got, err := Endpoint("band@getalby.com")
	if err != nil {
		t.Fatalf("Endpoint: %v", err)
	}
	if got != "https://getalby.com/.well-known/lnurlp/band" {
		t.Errorf("Endpoint = %q", got)
	}

	passthrough, err := Endpoint("https://example.com/lnurlp/x")
	if err != nil || passthrough != "https://example.com/lnurlp/x" {
		t.Errorf("passthrough = %q, err %v", passthrough, err)
	}

	for _, bad := range []string{"", "no-at-sign", "@domain", "name@"} {
		if _, err := Endpoint(bad); err == nil {
			t.Errorf("Endpoint(%q) expected error", bad)
		}
	}
}

func payServer(t *testing.T, minSendable int64) *httptest.Server {
	t.Helper()
	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasPrefix(r.URL.Path, "/.well-known/lnurlp/"):
			fmt.Fprintf(w, `{"tag":"payRequest","callback":"%s/cb","minSendable":%d,"maxSendable":100000000,"commentAllowed":32}`, srv.URL, minSendable)
		case r.URL.Path == "/cb":
			if r.URL.Query().Get("amount") == "" {
				http.Error(w, `{"status":"ERROR","reason":"no amount"}`, http.StatusOK)
				return
			}
			fmt.Fprintf(w, `{"pr":"lnbc1fake%s","routes":[]}`, r.URL.Query().Get("amount"))
		default:
			http.NotFound(w, r)
		}
	}))
	return srv
}

func TestRequestInvoice(t *testing.T) {
	srv := payServer(t, 1000)
	defer srv.Close()

	c := NewClient()
	invoice, err := c.RequestInvoice(context.Background(), srv.URL+"/.well-known/lnurlp/band", 5000, "great album")
	if err != nil {
		t.Fatalf("RequestInvoice: %v", err)
	}
	if invoice != "lnbc1fake5000" {
		t.Errorf("invoice = %q", invoice)
	}
}

func TestRequestInvoiceBelowMinimum(t *testing.T) {
	srv := payServer(t, 10000)
	defer srv.Close()

	c := NewClient()
	if _, err := c.RequestInvoice(context.Background(), srv.URL+"/.well-known/lnurlp/band", 5000, ""); err == nil {
		t.Error("expected minimum error")
	}
}

func TestBoostInvoicesSplits(t *testing.T) {
	srv := payServer(t, 1)
	defer srv.Close()

	c := NewClient()
	recipients := []Recipient{
		{Name: "Band", Address: srv.URL + "/.well-known/lnurlp/band", Split: 95},
		{Name: "Host", Address: srv.URL + "/.well-known/lnurlp/host", Split: 5, Fee: true},
		{Name: "NoAddress", Split: 50},
	}
	out := c.BoostInvoices(context.Background(), recipients, 100000, "boost!")
	if len(out) != 2 {
		t.Fatalf("got %d invoices, want 2: %+v", len(out), out)
	}
	if out[0].AmountMsat != 95000 || out[1].AmountMsat != 5000 {
		t.Errorf("amounts = %d, %d", out[0].AmountMsat, out[1].AmountMsat)
	}
	if out[0].Invoice == "" || out[0].Error != "" {
		t.Errorf("invoice 0 = %+v", out[0])
	}
}

// The fee recipient takes its percentage of the full amount off the top
// even when the remaining splits do not sum to 100.
func TestBoostInvoicesFeeOffTheTop(t *testing.T) {
	srv := payServer(t, 1)
	defer srv.Close()

	c := NewClient()
	recipients := []Recipient{
		{Name: "Band", Address: srv.URL + "/.well-known/lnurlp/band", Split: 50},
		{Name: "Producer", Address: srv.URL + "/.well-known/lnurlp/producer", Split: 25},
		{Name: "Host", Address: srv.URL + "/.well-known/lnurlp/host", Split: 10, Fee: true},
	}
	out := c.BoostInvoices(context.Background(), recipients, 100000, "boost!")
	if len(out) != 3 {
		t.Fatalf("got %d invoices, want 3: %+v", len(out), out)
	}
	// Host: 10% of 100000; Band and Producer split the remaining 90000 as 50/75 and 25/75
	want := []int64{60000, 30000, 10000}
	for i, w := range want {
		if out[i].AmountMsat != w {
			t.Errorf("%s amount = %d, want %d", out[i].Name, out[i].AmountMsat, w)
		}
		if out[i].Invoice == "" || out[i].Error != "" {
			t.Errorf("invoice %d = %+v", i, out[i])
		}
	}
}

func TestBoostInvoicesPartialFailure(t *testing.T) {
	srv := payServer(t, 1)
	defer srv.Close()

	c := NewClient()
	recipients := []Recipient{
		{Name: "Good", Address: srv.URL + "/.well-known/lnurlp/good", Split: 50},
		{Name: "Bad", Address: "not-an-address", Split: 50},
	}
	out := c.BoostInvoices(context.Background(), recipients, 10000, "")
	if len(out) != 2 {
		t.Fatalf("got %d results, want 2", len(out))
	}
	if out[0].Invoice == "" {
		t.Errorf("good recipient should have an invoice: %+v", out[0])
	}
	if out[1].Error == "" {
		t.Errorf("bad recipient should have an error: %+v", out[1])
	}
}
