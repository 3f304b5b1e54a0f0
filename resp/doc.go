// Package resp implements the RESP wire format: request framing and reply
// parsing. It is pure codec logic over an io.Writer / bufio.Reader pair and
// makes no I/O policy decisions; connection handling lives in the client
// package.
//
// Requests are arrays of bulk strings:
//
//	*<argc+1>\r\n$<len>\r\n<name>\r\n($<len>\r\n<arg>\r\n)*
//
// Replies are one of five forms selected by their first byte, decoded by
// ReadValue into the Value tagged union. Server error replies ("-message")
// surface as *ServerError instead of a Value.
package resp
