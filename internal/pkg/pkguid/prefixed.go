package pkguid

import "strconv"

// Prefixed turns a NumberID into a StringID by rendering the number in base 10
// after a fixed prefix, e.g. "vendas_load_1745...". The result is a valid
// BigQuery job ID as long as the prefix only holds letters, digits, "_" or "-".
type Prefixed struct {
	prefix string
	src    NumberID
}

// NewPrefixed wraps src with prefix.
func NewPrefixed(prefix string, src NumberID) *Prefixed {
	return &Prefixed{prefix: prefix, src: src}
}

// Generate returns prefix followed by the next numeric ID.
func (p *Prefixed) Generate() string {
	return p.prefix + strconv.FormatInt(p.src.Generate(), 10)
}
