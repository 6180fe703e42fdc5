package lnurl

import (
	"context"
)

// Recipient is one V4V split target.
type Recipient struct {
	Name    string
	Address string
	Split   int
	Fee     bool
}

// SplitInvoice is the outcome of one recipient's invoice request.
type SplitInvoice struct {
	Name       string `json:"name"`
	Address    string `json:"address"`
	AmountMsat int64  `json:"amountMsat"`
	Invoice    string `json:"invoice,omitempty"`
	Error      string `json:"error,omitempty"`
}

// BoostInvoices splits an amount across recipients and requests an invoice
// for each. Fee recipients are paid their percentage of the full amount off
// the top; the remainder is divided over the other recipients by their
// normalized split. A failing recipient is reported in place; it does not
// abort the others.
func (c *Client) BoostInvoices(ctx context.Context, recipients []Recipient, amountMsat int64, comment string) []SplitInvoice {
	total := int64(0)
	feeMsat := int64(0)
	payable := 0
	for _, r := range recipients {
		if r.Address == "" || r.Split <= 0 {
			continue
		}
		payable++
		if r.Fee {
			feeMsat += amountMsat * int64(r.Split) / 100
		} else {
			total += int64(r.Split)
		}
	}
	if payable == 0 {
		return nil
	}
	remainder := amountMsat - feeMsat
	if remainder < 0 {
		remainder = 0
	}

	var out []SplitInvoice
	for _, r := range recipients {
		if r.Address == "" || r.Split <= 0 {
			continue
		}
		var share int64
		if r.Fee {
			share = amountMsat * int64(r.Split) / 100
		} else if total > 0 {
			share = remainder * int64(r.Split) / total
		}
		si := SplitInvoice{Name: r.Name, Address: r.Address, AmountMsat: share}
		if share <= 0 {
			si.Error = "split rounds to zero"
			out = append(out, si)
			continue
		}
		invoice, err := c.RequestInvoice(ctx, r.Address, share, comment)
		if err != nil {
			si.Error = err.Error()
		} else {
			si.Invoice = invoice
		}
		out = append(out, si)
	}
	return out
}
