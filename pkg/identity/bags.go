package identity

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pkcs12"
)

// localKeyIDHeader is the PEM header pkcs12.ToPEM uses for the localKeyId
// bag attribute, which ties a certificate to its key.
const localKeyIDHeader = "localKeyId"

// decodeBags walks every safe bag in the container and keeps the first
// private key, for containers that DecodeChain rejects because they hold
// more than one.
func decodeBags(data []byte, password string) (any, *x509.Certificate, []*x509.Certificate, error) {
	blocks, err := pkcs12.ToPEM(data, password)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "converting safe bags")
	}
	return firstKey(blocks)
}

// firstKey picks the first private key block and its certificate, matched
// by local key id or else by public key. Certificates tagged for another
// key are dropped. The rest form the remainder of the chain, in order.
func firstKey(blocks []*pem.Block) (any, *x509.Certificate, []*x509.Certificate, error) {
	var keyBlock *pem.Block
	for _, b := range blocks {
		if b.Type == pemPrivateKey {
			keyBlock = b
			break
		}
	}
	if keyBlock == nil {
		return nil, nil, nil, errors.New("no private key entry")
	}

	key, err := parsePrivateKey(keyBlock.Bytes)
	if err != nil {
		return nil, nil, nil, err
	}

	signer, ok := key.(crypto.Signer)
	if !ok {
		return nil, nil, nil, errors.Errorf("unsupported private key type %T", key)
	}
	pub, ok := signer.Public().(interface{ Equal(crypto.PublicKey) bool })
	if !ok {
		return nil, nil, nil, errors.Errorf("unsupported public key type %T", signer.Public())
	}

	keyID := keyBlock.Headers[localKeyIDHeader]

	var (
		leaf *x509.Certificate
		rest []*x509.Certificate
	)
	for _, b := range blocks {
		if b.Type != pemCertificate {
			continue
		}

		cert, err := x509.ParseCertificate(b.Bytes)
		if err != nil {
			return nil, nil, nil, errors.Wrap(err, "parsing certificate")
		}

		certID := b.Headers[localKeyIDHeader]
		switch {
		case leaf == nil && keyID != "" && certID == keyID:
			leaf = cert
		case leaf == nil && pub.Equal(cert.PublicKey):
			leaf = cert
		case certID != "" && certID != keyID:
			// another key's certificate
		default:
			rest = append(rest, cert)
		}
	}

	if leaf == nil {
		return nil, nil, nil, errors.New("no certificate for private key")
	}

	return key, leaf, rest, nil
}

// parsePrivateKey accepts the encodings pkcs12.ToPEM produces (PKCS#1 for
// RSA, SEC 1 for EC) and PKCS#8.
func parsePrivateKey(der []byte) (any, error) {
	if key, err := x509.ParsePKCS1PrivateKey(der); err == nil {
		return key, nil
	}
	if key, err := x509.ParseECPrivateKey(der); err == nil {
		return key, nil
	}
	key, err := x509.ParsePKCS8PrivateKey(der)
	if err != nil {
		return nil, errors.Wrap(err, "parsing private key")
	}
	return key, nil
}
