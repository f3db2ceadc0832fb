package service

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/skip2/go-qrcode"
)

const receiptQRSize = 256

type DefaultQRGenerator struct {
	BaseURL string
}

// ReceiptLink is the URL printed on the receipt for an order.
func (g DefaultQRGenerator) ReceiptLink(orderNumber string) string {
	return fmt.Sprintf("%s/orders/verify?order_number=%s", strings.TrimRight(g.BaseURL, "/"), url.QueryEscape(orderNumber))
}

func (g DefaultQRGenerator) Generate(orderNumber string) ([]byte, error) {
	return qrcode.Encode(g.ReceiptLink(orderNumber), qrcode.Medium, receiptQRSize)
}

var orderCodePattern = regexp.MustCompile(`(?i)^(ORD-)?[A-Z0-9][A-Z0-9-]*$`)

// ParseOrderCode extracts an order number from what a scanner or the
// cashier typed: a bare order number, an ORD- code, or a receipt URL with
// an order_number query parameter.
func ParseOrderCode(code string) (string, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", ErrInvalidOrderCode
	}

	if strings.Contains(code, "://") || strings.Contains(code, "?") {
		u, err := url.Parse(code)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidOrderCode, err)
		}
		code = strings.TrimSpace(u.Query().Get("order_number"))
		if code == "" {
			return "", fmt.Errorf("%w: missing order_number", ErrInvalidOrderCode)
		}
	}

	if !orderCodePattern.MatchString(code) {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderCode, code)
	}
	if len(code) > 4 && strings.EqualFold(code[:4], "ORD-") {
		return "ORD-" + code[4:], nil
	}
	return code, nil
}
