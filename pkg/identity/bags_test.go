package identity

import (
	"crypto/ecdsa"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func certBlock(cert *x509.Certificate, keyID string) *pem.Block {
	b := &pem.Block{Type: pemCertificate, Bytes: cert.Raw, Headers: map[string]string{}}
	if keyID != "" {
		b.Headers[localKeyIDHeader] = keyID
	}
	return b
}

func keyBlock(t *testing.T, key *ecdsa.PrivateKey, keyID string) *pem.Block {
	t.Helper()

	der, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)

	b := &pem.Block{Type: pemPrivateKey, Bytes: der, Headers: map[string]string{}}
	if keyID != "" {
		b.Headers[localKeyIDHeader] = keyID
	}
	return b
}

func TestFirstKey(t *testing.T) {
	t.Parallel()

	a := makeFixture(t)
	b := makeFixture(t)

	var tests = []struct {
		name         string
		blocks       []*pem.Block
		expectedKey  *ecdsa.PrivateKey
		expectedLeaf *x509.Certificate
		expectedRest []*x509.Certificate
	}{
		{
			name: "two keys, first wins",
			blocks: []*pem.Block{
				certBlock(a.leafCert, "aa"),
				certBlock(b.leafCert, "bb"),
				certBlock(a.caCert, ""),
				keyBlock(t, a.leafKey, "aa"),
				keyBlock(t, b.leafKey, "bb"),
			},
			expectedKey:  a.leafKey,
			expectedLeaf: a.leafCert,
			expectedRest: []*x509.Certificate{a.caCert},
		},
		{
			name: "two keys, second listed first",
			blocks: []*pem.Block{
				keyBlock(t, b.leafKey, "bb"),
				keyBlock(t, a.leafKey, "aa"),
				certBlock(a.leafCert, "aa"),
				certBlock(b.leafCert, "bb"),
				certBlock(b.caCert, ""),
			},
			expectedKey:  b.leafKey,
			expectedLeaf: b.leafCert,
			expectedRest: []*x509.Certificate{b.caCert},
		},
		{
			name: "matched by public key without ids",
			blocks: []*pem.Block{
				certBlock(a.caCert, ""),
				certBlock(a.leafCert, ""),
				keyBlock(t, a.leafKey, ""),
			},
			expectedKey:  a.leafKey,
			expectedLeaf: a.leafCert,
			expectedRest: []*x509.Certificate{a.caCert},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			key, leaf, rest, err := firstKey(tt.blocks)
			require.NoError(t, err)

			ecKey, ok := key.(*ecdsa.PrivateKey)
			require.True(t, ok)
			assert.True(t, tt.expectedKey.Equal(ecKey))
			assert.Equal(t, tt.expectedLeaf.Raw, leaf.Raw)

			require.Len(t, rest, len(tt.expectedRest))
			for i := range rest {
				assert.Equal(t, tt.expectedRest[i].Raw, rest[i].Raw)
			}
		})
	}
}

func TestFirstKeyErrors(t *testing.T) {
	t.Parallel()

	a := makeFixture(t)
	b := makeFixture(t)

	var tests = []struct {
		name   string
		blocks []*pem.Block
	}{
		{name: "no blocks"},
		{name: "certificates only", blocks: []*pem.Block{certBlock(a.leafCert, ""), certBlock(a.caCert, "")}},
		{name: "no matching certificate", blocks: []*pem.Block{keyBlock(t, a.leafKey, "aa"), certBlock(b.leafCert, "bb")}},
		{name: "bad key", blocks: []*pem.Block{{Type: pemPrivateKey, Bytes: []byte("nope")}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, _, err := firstKey(tt.blocks)
			require.Error(t, err)
		})
	}
}

func TestDecodeBags(t *testing.T) {
	t.Parallel()

	f := makeFixture(t)

	key, leaf, rest, err := decodeBags(f.container, testPassword)
	require.NoError(t, err)

	ecKey, ok := key.(*ecdsa.PrivateKey)
	require.True(t, ok)
	assert.True(t, f.leafKey.Equal(ecKey))
	assert.Equal(t, f.leafCert.Raw, leaf.Raw)
	require.Len(t, rest, 1)
	assert.Equal(t, f.caCert.Raw, rest[0].Raw)

	_, _, _, err = decodeBags(f.container, "not-the-password")
	require.Error(t, err)
}
