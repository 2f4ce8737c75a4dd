package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/ogaydukov/boostup/pkg/logger"
)

type gzipWriter struct {
	http.ResponseWriter
	gz io.Writer
}

func (w gzipWriter) Write(b []byte) (int, error) {
	return w.gz.Write(b)
}

func WithGzip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			next.ServeHTTP(w, r)
			return
		}

		gz, err := gzip.NewWriterLevel(w, gzip.BestSpeed)
		if err != nil {
			logger.Log.Error("error creating gzip writer", logger.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		defer func() {
			if err := gz.Close(); err != nil {
				logger.Log.Error("error closing gzip writer", logger.Error(err))
			}
		}()

		w.Header().Set("Content-Encoding", "gzip")
		next.ServeHTTP(gzipWriter{ResponseWriter: w, gz: gz}, r)
	})
}
