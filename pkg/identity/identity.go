// Package identity extracts a TLS client identity from a PKCS#12
// container, and re-encodes it as PEM for use with crypto/tls.
package identity

import (
	"bytes"
	"crypto/tls"
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
	"github.com/pkg/errors"
	p12 "software.sslmate.com/src/go-pkcs12"
)

const (
	pemCertificate = "CERTIFICATE"
	pemPrivateKey  = "PRIVATE KEY"
)

// ErrInvalidCredential is returned for any container that cannot be used:
// corrupt data, an unsupported algorithm, a wrong password, or no private
// key entry. These cases are deliberately not told apart, so the error
// cannot be used as a password oracle.
var ErrInvalidCredential = errors.New("invalid credential")

// Identity is a certificate chain, leaf first, and its private key. All
// values are DER encoded; the key is PKCS#8.
type Identity struct {
	CertificateChain [][]byte
	PrivateKey       []byte
}

type Extractor struct {
	logger log.Logger
}

type Option func(*Extractor)

func WithLogger(logger log.Logger) Option {
	return func(e *Extractor) {
		e.logger = logger
	}
}

func New(opts ...Option) *Extractor {
	e := &Extractor{
		logger: log.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Decode decrypts a PKCS#12 container with password and returns the
// private key entry and its chain. A container holding several keys
// yields the first one, with the certificate that belongs to it.
func (e *Extractor) Decode(data []byte, password string) (*Identity, error) {
	privateKey, cert, caCerts, err := p12.DecodeChain(data, password)
	if err != nil {
		// The cause is only logged. Callers get the opaque error.
		level.Debug(e.logger).Log(
			"msg", "unable to decode pkcs12 container, walking safe bags",
			"err", err,
		)

		privateKey, cert, caCerts, err = decodeBags(data, password)
		if err != nil {
			level.Debug(e.logger).Log(
				"msg", "unable to decode pkcs12 safe bags",
				"err", err,
			)
			return nil, ErrInvalidCredential
		}
	}

	if privateKey == nil || cert == nil {
		level.Debug(e.logger).Log("msg", "pkcs12 container has no private key entry")
		return nil, ErrInvalidCredential
	}

	keyDER, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		level.Debug(e.logger).Log(
			"msg", "unable to marshal private key as pkcs8",
			"err", err,
		)
		return nil, ErrInvalidCredential
	}

	chain := make([][]byte, 0, 1+len(caCerts))
	chain = append(chain, cert.Raw)
	for _, c := range caCerts {
		chain = append(chain, c.Raw)
	}

	level.Debug(e.logger).Log(
		"msg", "decoded pkcs12 container",
		"subject", cert.Subject.String(),
		"chain_length", len(chain),
	)

	return &Identity{
		CertificateChain: chain,
		PrivateKey:       keyDER,
	}, nil
}

// Extract decodes a container and returns the PEM encoded certificate
// chain and private key. Either both are returned or an error is.
func (e *Extractor) Extract(data []byte, password string) (certPEM []byte, keyPEM []byte, err error) {
	id, err := e.Decode(data, password)
	if err != nil {
		return nil, nil, err
	}

	certPEM, keyPEM = id.PEM()
	return certPEM, keyPEM, nil
}

// ExtractFile is Extract on the contents of path. Failing to read the file
// is reported as such, not as ErrInvalidCredential.
func (e *Extractor) ExtractFile(path string, password string) (certPEM []byte, keyPEM []byte, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "reading pkcs12 file %s", path)
	}

	level.Debug(e.logger).Log(
		"msg", "extracting identity",
		"file", path,
	)

	return e.Extract(data, password)
}

// Extract uses a default Extractor.
func Extract(data []byte, password string) (certPEM []byte, keyPEM []byte, err error) {
	return New().Extract(data, password)
}

// PEM encodes the chain as concatenated CERTIFICATE blocks, in chain
// order, and the key as a single PRIVATE KEY block.
func (id *Identity) PEM() (certPEM []byte, keyPEM []byte) {
	var certBuf bytes.Buffer
	for _, der := range id.CertificateChain {
		certBuf.Write(pem.EncodeToMemory(&pem.Block{Type: pemCertificate, Bytes: der}))
	}

	keyPEM = pem.EncodeToMemory(&pem.Block{Type: pemPrivateKey, Bytes: id.PrivateKey})

	return certBuf.Bytes(), keyPEM
}

// TLSCertificate returns the identity as a tls.Certificate suitable for
// tls.Config.Certificates.
func (id *Identity) TLSCertificate() (tls.Certificate, error) {
	certPEM, keyPEM := id.PEM()

	cert, err := tls.X509KeyPair(certPEM, keyPEM)
	if err != nil {
		return tls.Certificate{}, errors.Wrap(err, "building tls certificate")
	}

	return cert, nil
}
