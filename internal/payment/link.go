package payment

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// LinkBuilder renders UPI payment URIs for a single payee.
type LinkBuilder struct {
	PayeeID   string
	PayeeName string
}

func NewLinkBuilder(payeeID, payeeName string) *LinkBuilder {
	return &LinkBuilder{PayeeID: payeeID, PayeeName: payeeName}
}

// Build returns upi://pay?pa=..&pn=..&am=..&tn=.. with parameters in that
// order. The same inputs always yield the same string.
func (b *LinkBuilder) Build(orderNumber string, amount decimal.Decimal) string {
	var sb strings.Builder
	sb.WriteString("upi://pay?pa=")
	sb.WriteString(escape(b.PayeeID))
	sb.WriteString("&pn=")
	sb.WriteString(escape(b.PayeeName))
	sb.WriteString("&am=")
	sb.WriteString(escape(amount.String()))
	sb.WriteString("&tn=")
	sb.WriteString(escape(orderNumber))
	return sb.String()
}

// literal holds the bytes a UPI query value may carry unescaped: RFC 3986
// unreserved characters plus the sub-delims that do not split or decode a
// query (so "@" in a VPA stays as is, while "&", "=", "+" and space do not).
const literal = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~@:!$'()*,;/"

// escape percent-encodes every byte of v outside literal.
func escape(v string) string {
	var sb strings.Builder
	for i := 0; i < len(v); i++ {
		c := v[i]
		if strings.IndexByte(literal, c) >= 0 {
			sb.WriteByte(c)
			continue
		}
		fmt.Fprintf(&sb, "%%%02X", c)
	}
	return sb.String()
}
