package redis

import (
	"crypto/x509"
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds connect, send and receive when Config.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// Config holds everything a single client needs to know about its endpoint.
// It is read-only for the lifetime of the client.
type Config struct {
	// Addr is the server endpoint as host:port. Required.
	Addr string

	// TLSServerName overrides the hostname used for TLS server-name
	// validation. Defaults to the host part of Addr.
	TLSServerName string

	// Timeout applies to the connect attempt and to each send/receive
	// operation. Zero means DefaultTimeout.
	Timeout time.Duration

	// Username and Password drive the AUTH handshake. An empty Password
	// disables AUTH entirely; an empty Username selects the legacy
	// single-argument AUTH form.
	Username string
	Password string

	// DB is the database index selected before the first command.
	// Zero targets the default database and sends no SELECT.
	DB int

	// ClusterMode suppresses SELECT for DB > 0: cluster and sentinel
	// deployments reject that combination.
	ClusterMode bool

	// UseTLS upgrades the connection with a client-side TLS handshake
	// immediately after connect.
	UseTLS bool

	// PinnedCert restricts TLS to servers presenting this exact certificate
	// somewhere in their chain. Nil accepts any server certificate.
	PinnedCert *x509.Certificate

	// MaxRequestSize rejects requests whose serialized size exceeds it,
	// before any bytes are sent. Zero means unlimited.
	MaxRequestSize int

	// ThrowOnError controls coercion strictness. When false, values that
	// cannot be coerced to the requested type are logged and replaced by the
	// type's zero value instead of failing the call. Transport and protocol
	// failures always propagate regardless.
	ThrowOnError bool

	// Encoder turns arguments into binary payloads and blobs back into
	// values. Nil means StringEncoder.
	Encoder Encoder

	// Trace, when set, is called at the start of every transmitted command
	// and returns the span closer, invoked with the command's outcome.
	Trace func(cmd string) func(error)

	// Logger receives command-level debug logging. Nil discards.
	Logger logrus.FieldLogger
}

func (c *Config) effectiveTimeout() time.Duration {
	if c.Timeout > 0 {
		return c.Timeout
	}
	return DefaultTimeout
}

func (c *Config) encoder() Encoder {
	if c.Encoder != nil {
		return c.Encoder
	}
	return StringEncoder{}
}

func (c *Config) logger() logrus.FieldLogger {
	if c.Logger != nil {
		return c.Logger
	}
	return discardLogger
}

var discardLogger logrus.FieldLogger = func() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()
