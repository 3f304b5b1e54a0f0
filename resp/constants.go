package resp

// Type markers: the first byte of every reply selects its form.
const (
	TypeSimple  = '+'
	TypeError   = '-'
	TypeInteger = ':'
	TypeBulk    = '$'
	TypeArray   = '*'
)

const CRLF = "\r\n"

// Commands with at most MaxCachedArgc arguments get their preamble bytes from
// the shared header cache.
const MaxCachedArgc = 3
