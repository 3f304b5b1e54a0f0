package resp

import (
	"strconv"

	"github.com/puzpuzpuz/xsync/v3"
)

// headerCache memoizes the fixed preamble of small fixed-arity commands: the
// array header plus the command-name bulk frame. The mapping is pure and
// content-addressed, so it is shared process-wide across all clients and
// never torn down.
var headerCache = xsync.NewMapOf[string, []byte]()

// commandHeader returns the preamble bytes for a command with argc arguments:
//
//	*<argc+1>\r\n$<len(name)>\r\n<name>\r\n
//
// Headers for argument counts 0 through MaxCachedArgc are served from the
// shared cache; larger arities are built fresh each time.
func commandHeader(name string, argc int) []byte {
	if argc > MaxCachedArgc {
		return buildHeader(name, argc)
	}

	key := strconv.Itoa(argc) + name
	if header, ok := headerCache.Load(key); ok {
		return header
	}
	header := buildHeader(name, argc)
	headerCache.Store(key, header)
	return header
}

func buildHeader(name string, argc int) []byte {
	buf := make([]byte, 0, len(name)+16)
	buf = append(buf, TypeArray)
	buf = strconv.AppendInt(buf, int64(argc+1), 10)
	buf = append(buf, CRLF...)
	return appendBulk(buf, []byte(name))
}
