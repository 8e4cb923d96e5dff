package server

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"io"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejgyurisan/boar-server/logger"
)

func okHandler(body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, body)
	})
}

func TestListenHTTP_ServesRequests(t *testing.T) {
	g := NewGroup(logger.Nop(), 0)

	h, err := g.ListenHTTP("127.0.0.1:0", okHandler("hello"))
	require.NoError(t, err)
	require.Equal(t, 1, g.Len())

	resp, err := http.Get("http://" + h.Addr() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	require.NoError(t, g.Close(context.Background()))
	assert.Equal(t, 0, g.Len())
}

func TestListenHTTP_BindError(t *testing.T) {
	g := NewGroup(logger.Nop(), 0)

	// Occupy a port, then try to bind it again.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	_, err = g.ListenHTTP(ln.Addr().String(), okHandler(""))
	require.Error(t, err)
	assert.Equal(t, 0, g.Len(), "failed bind must not be tracked")
}

func TestClose_EmptyGroupIsNoop(t *testing.T) {
	g := NewGroup(logger.Nop(), 0)
	require.NoError(t, g.Close(context.Background()))
}

func TestClose_StopsAllListeners(t *testing.T) {
	g := NewGroup(logger.Nop(), 0)

	h1, err := g.ListenHTTP("127.0.0.1:0", okHandler("one"))
	require.NoError(t, err)
	h2, err := g.ListenHTTP("127.0.0.1:0", okHandler("two"))
	require.NoError(t, err)
	require.Equal(t, 2, g.Len())

	require.NoError(t, g.Close(context.Background()))

	client := http.Client{Timeout: 500 * time.Millisecond}
	for _, addr := range []string{h1.Addr(), h2.Addr()} {
		_, err := client.Get("http://" + addr + "/")
		assert.Error(t, err, "listener %s must be closed", addr)
	}
}

func TestClose_Idempotent(t *testing.T) {
	g := NewGroup(logger.Nop(), 0)

	_, err := g.ListenHTTP("127.0.0.1:0", okHandler(""))
	require.NoError(t, err)

	require.NoError(t, g.Close(context.Background()))
	require.NoError(t, g.Close(context.Background()))
}

// writeSelfSignedCert generates a throwaway localhost certificate pair and
// returns the file paths.
func writeSelfSignedCert(t *testing.T) (certFile, keyFile string) {
	t.Helper()

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)

	tmpl := x509.Certificate{
		SerialNumber: big.NewInt(1),
		Subject:      pkix.Name{CommonName: "localhost"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		IPAddresses:  []net.IP{net.ParseIP("127.0.0.1")},
		DNSNames:     []string{"localhost"},
	}

	der, err := x509.CreateCertificate(rand.Reader, &tmpl, &tmpl, &key.PublicKey, key)
	require.NoError(t, err)

	dir := t.TempDir()
	certFile = filepath.Join(dir, "cert.pem")
	keyFile = filepath.Join(dir, "key.pem")

	certOut, err := os.Create(certFile)
	require.NoError(t, err)
	require.NoError(t, pem.Encode(certOut, &pem.Block{Type: "CERTIFICATE", Bytes: der}))
	require.NoError(t, certOut.Close())

	keyDER, err := x509.MarshalECPrivateKey(key)
	require.NoError(t, err)
	keyOut, err := os.Create(keyFile)
	require.NoError(t, err)
	require.NoError(t, pem.Encode(keyOut, &pem.Block{Type: "EC PRIVATE KEY", Bytes: keyDER}))
	require.NoError(t, keyOut.Close())

	return certFile, keyFile
}

func TestListenTLS_ServesRequests(t *testing.T) {
	certFile, keyFile := writeSelfSignedCert(t)

	tlsCfg, err := FileTLSConfig(certFile, keyFile)
	require.NoError(t, err)

	g := NewGroup(logger.Nop(), 0)
	h, err := g.ListenTLS("127.0.0.1:0", okHandler("secure"), tlsCfg)
	require.NoError(t, err)
	assert.True(t, h.TLS())

	client := http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}

	resp, err := client.Get("https://" + h.Addr() + "/")
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "secure", string(body))

	require.NoError(t, g.Close(context.Background()))
}

func TestFileTLSConfig_MissingFiles(t *testing.T) {
	_, err := FileTLSConfig("/nope/cert.pem", "/nope/key.pem")
	require.Error(t, err)
}

func TestAutocertTLSConfig_HasGetCertificate(t *testing.T) {
	cfg := AutocertTLSConfig([]string{"example.com"}, t.TempDir())
	require.NotNil(t, cfg.GetCertificate)
	assert.GreaterOrEqual(t, cfg.MinVersion, uint16(tls.VersionTLS12))
}
