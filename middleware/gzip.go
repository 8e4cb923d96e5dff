package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() any {
		return gzip.NewWriter(nil)
	},
}

var gzipReaderPool = sync.Pool{
	New: func() any {
		return new(gzip.Reader)
	},
}

// Gzip transparently decompresses gzip-encoded request bodies and
// compresses responses for clients that advertise gzip support.
// Writers and readers are pooled across requests.
func Gzip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") && r.Body != nil {
			zr := gzipReaderPool.Get().(*gzip.Reader)
			if err := zr.Reset(r.Body); err != nil {
				gzipReaderPool.Put(zr)
				WriteError(w, http.StatusBadRequest, "invalid gzip data")
				return
			}

			r.Body = &pooledReadCloser{
				Reader: zr,
				onClose: func() {
					zr.Close()
					gzipReaderPool.Put(zr)
				},
			}
			r.Header.Del("Content-Encoding")
		}

		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		zw := gzipWriterPool.Get().(*gzip.Writer)
		zw.Reset(w)

		gw := &gzipResponseWriter{ResponseWriter: w, zw: zw}
		next.ServeHTTP(gw, r)

		zw.Close()
		gzipWriterPool.Put(zw)
	})
}

type pooledReadCloser struct {
	io.Reader
	onClose func()
}

func (rc *pooledReadCloser) Close() error {
	if rc.onClose != nil {
		rc.onClose()
	}
	return nil
}

type gzipResponseWriter struct {
	http.ResponseWriter
	zw *gzip.Writer
}

func (w *gzipResponseWriter) WriteHeader(statusCode int) {
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	// An implicit 200 from the first Write bypasses WriteHeader, so the
	// header has to be in place before the underlying writer sends it.
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Del("Content-Length")
	return w.zw.Write(b)
}
