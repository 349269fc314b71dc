package binance

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Params is an insertion-ordered key/value set. The signature is computed
// over the exact encoded byte sequence, so ordering must be stable between
// building and signing; a plain map would not guarantee that.
type Params struct {
	keys   []string
	values map[string]string
}

func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set appends the pair, or overwrites in place if the key already exists.
func (p *Params) Set(key, value string) *Params {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// SetDecimal formats d canonically (no exponent, no trailing zeros).
func (p *Params) SetDecimal(key string, d decimal.Decimal) *Params {
	return p.Set(key, FormatDecimal(d))
}

// SetInt formats v in base 10.
func (p *Params) SetInt(key string, v int64) *Params {
	return p.Set(key, strconv.FormatInt(v, 10))
}

// SetBool formats v as a lowercase literal.
func (p *Params) SetBool(key string, v bool) *Params {
	return p.Set(key, strconv.FormatBool(v))
}

// Len reports the number of pairs.
func (p *Params) Len() int { return len(p.keys) }

// Encode serializes the pairs as key=value joined by '&', values
// URL-escaped, in insertion order. This is the canonical byte sequence the
// signature covers.
func (p *Params) Encode() string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}

// FormatDecimal renders a decimal for the wire: fixed point, no exponent,
// no trailing zeros, no locale separators. shopspring's String already
// trims trailing fractional zeros.
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}
