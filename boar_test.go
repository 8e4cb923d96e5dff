package boar

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/tls"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/json"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejgyurisan/boar-server/client"
	"github.com/ejgyurisan/boar-server/config"
	"github.com/ejgyurisan/boar-server/controller"
	"github.com/ejgyurisan/boar-server/logger"
	"github.com/ejgyurisan/boar-server/middleware"
)

type echoController struct{}

func (echoController) Prefix() string { return "/api/echo" }

func (echoController) Routes(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"method":     req.Method,
			"request_id": w.Header().Get(middleware.RequestIDHeader),
		})
	})
	r.Delete("/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func testConfig() *config.Config {
	return &config.Config{} // port 0: ephemeral listener
}

// baseURL converts a bound listener address like "[::]:41231" into a
// loopback URL.
func baseURL(t *testing.T, addr string) string {
	t.Helper()
	_, port, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	return "http://127.0.0.1:" + port
}

func startApp(t *testing.T, app *App) string {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)

	require.NoError(t, app.Listen(ctx))
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	addrs := app.Addrs()
	require.Len(t, addrs, 1)

	url := baseURL(t, addrs[0])
	require.NoError(t, client.New(url).WaitReady(ctx, controller.HealthPrefix))
	return url
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

// freeDerivedPortPair finds a port whose derived TLS port (+10000) is also
// free to bind. Both listeners are closed again before returning, so there
// is a small window in which another process could grab one of them.
func freeDerivedPortPair(t *testing.T) int {
	t.Helper()

	for attempt := 0; attempt < 20; attempt++ {
		ln, err := net.Listen("tcp", ":0")
		require.NoError(t, err)
		port := ln.Addr().(*net.TCPAddr).Port

		if port+config.HTTPSPortOffset > 65535 {
			ln.Close()
			continue
		}

		derived, err := net.Listen("tcp", fmt.Sprintf(":%d", port+config.HTTPSPortOffset))
		if err != nil {
			ln.Close()
			continue
		}

		derived.Close()
		ln.Close()
		return port
	}

	t.Fatal("no free port pair found")
	return 0
}

func httpsTestConfig(t *testing.T) *config.Config {
	t.Helper()

	certFile, keyFile := writeSelfSignedCert(t)

	cfg := testConfig()
	cfg.Server.Port = freeDerivedPortPair(t)
	cfg.HTTPS.Enabled = true
	cfg.HTTPS.CertFile = certFile
	cfg.HTTPS.KeyFile = keyFile
	return cfg
}

func insecureClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestApp_HTTPSListenServesBothPorts(t *testing.T) {
	cfg := httpsTestConfig(t)

	app := New(cfg, logger.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, app.Listen(ctx))
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	require.Len(t, app.Addrs(), 2)

	httpsURL := fmt.Sprintf("https://127.0.0.1:%d", cfg.Server.HTTPSPort())
	resp, err := insecureClient().Get(httpsURL + controller.HealthPrefix)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_HTTPSListenRedirectsPlaintext(t *testing.T) {
	cfg := httpsTestConfig(t)

	app := New(cfg, logger.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, app.Listen(ctx))
	t.Cleanup(func() { _ = app.Close(context.Background()) })

	plainURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)

	resp, err := insecureClient().Get(plainURL + "/somewhere")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMovedPermanently, resp.StatusCode)
	assert.Equal(t,
		fmt.Sprintf("https://127.0.0.1:%d/somewhere", cfg.Server.HTTPSPort()),
		resp.Header.Get("Location"))

	// The health endpoint stays reachable over plaintext.
	resp, err = insecureClient().Get(plainURL + controller.HealthPrefix)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_HTTPSListenPartialFailureClosesHTTP(t *testing.T) {
	cfg := httpsTestConfig(t)

	// Occupy the derived TLS port so the second bind fails after the
	// plaintext listener already started.
	blocker, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.HTTPSPort()))
	require.NoError(t, err)
	defer blocker.Close()

	app := New(cfg, logger.Nop())
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = app.Listen(ctx)
	require.Error(t, err)
	assert.Empty(t, app.Addrs())
}

func TestApp_HealthEndpoint(t *testing.T) {
	app := New(testConfig(), logger.Nop())
	url := startApp(t, app)

	resp, err := http.Get(url + controller.HealthPrefix)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_MountedControllerServes(t *testing.T) {
	app := New(testConfig(), logger.Nop())
	require.NoError(t, app.MountControllers(echoController{}))

	url := startApp(t, app)

	resp, err := http.Get(url + "/api/echo/")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
}

func TestApp_MethodOverrideEndToEnd(t *testing.T) {
	app := New(testConfig(), logger.Nop())
	app.UseMethodOverride()
	require.NoError(t, app.MountControllers(echoController{}))

	url := startApp(t, app)

	req, err := http.NewRequest(http.MethodPost, url+"/api/echo/", nil)
	require.NoError(t, err)
	req.Header.Set(middleware.MethodOverrideHeader, http.MethodDelete)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestApp_SecurityHeadersEndToEnd(t *testing.T) {
	app := New(testConfig(), logger.Nop())
	app.UseSecurityHeaders(middleware.SecurityHeadersConfig{})

	url := startApp(t, app)

	resp, err := http.Get(url + controller.HealthPrefix)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, "nosniff", resp.Header.Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", resp.Header.Get("X-Frame-Options"))
}

func TestApp_StaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.css"), []byte("body{}"), 0o600))

	cfg := testConfig()
	cfg.Assets.StaticDir = dir

	app := New(cfg, logger.Nop())
	app.UseStatic("/static")

	url := startApp(t, app)

	resp, err := http.Get(url + "/static/app.css")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestApp_CloseStopsServing(t *testing.T) {
	app := New(testConfig(), logger.Nop())
	url := startApp(t, app)

	require.NoError(t, app.Close(context.Background()))
	assert.Empty(t, app.Addrs())

	c := http.Client{Timeout: 500 * time.Millisecond}
	_, err := c.Get(url + controller.HealthPrefix)
	assert.Error(t, err)
}

func TestApp_CloseWithoutListen(t *testing.T) {
	app := New(testConfig(), logger.Nop())
	require.NoError(t, app.Close(context.Background()))
}

func TestApp_DuplicateControllerPrefix(t *testing.T) {
	app := New(testConfig(), logger.Nop())
	require.NoError(t, app.MountControllers(echoController{}))
	require.ErrorIs(t, app.MountControllers(echoController{}), controller.ErrDuplicatePrefix)
}

func TestApp_UseViewsAndRender(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.gohtml"), []byte("hi {{.}}"), 0o600))

	cfg := testConfig()
	cfg.Assets.ViewsDir = dir
	cfg.Assets.ViewsExt = ".gohtml"

	app := New(cfg, logger.Nop())
	require.NoError(t, app.UseViews())
	require.NotNil(t, app.Views())
}

func TestApp_UseAuthRequiresConfig(t *testing.T) {
	app := New(testConfig(), logger.Nop())
	require.Error(t, app.UseAuth())

	cfg := testConfig()
	cfg.Auth.TokenSignKey = "secret"
	cfg.Auth.TokenIssuer = "boar"
	cfg.Auth.TokenDuration = time.Hour

	app = New(cfg, logger.Nop())
	require.NoError(t, app.UseAuth())
	require.NotNil(t, app.Tokens())
	require.NotNil(t, app.AuthMiddleware())
}
