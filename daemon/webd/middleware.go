package webd

import (
	"io"
	"net/http"
	"time"

	ghandlers "github.com/gorilla/handlers"
)

// tokenAuthenticationMiddleware checks for the configured token in the
// Authorization header or the api_token query parameter.
// A missing or wrong token is a 403. With no token configured every request passes.
func (s *WebDaemon) tokenAuthenticationMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		validToken := s.Config.Token
		if validToken == "" {
			next.ServeHTTP(w, r)
			return
		}

		token := r.Header.Get("Authorization")
		if token == "" {
			// Header token not set. Check alternate protocol, a query param with the name api_token.
			token = r.URL.Query().Get("api_token")
		}

		if token != validToken {
			s.logger.Warn("Invalid token",
				"method", r.Method, "url", r.URL.Path,
				"remote-addr", r.RemoteAddr,
				"user-agent", r.UserAgent())
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func permissiveCorsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Add("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization")
		next.ServeHTTP(w, r)
	})
}

func contentTypeMiddlewareFunc(contentType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", contentType)
			next.ServeHTTP(w, r)
		})
	}
}

// loggingMiddleware logs one structured line per request.
func (s *WebDaemon) loggingMiddleware(next http.Handler) http.Handler {
	return ghandlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, p ghandlers.LogFormatterParams) {
		s.logger.Info("HTTP",
			"method", p.Request.Method,
			"uri", p.URL.RequestURI(),
			"status", p.StatusCode,
			"size", p.Size,
			"remote-addr", p.Request.RemoteAddr,
			"elapsed", time.Since(p.TimeStamp).Round(time.Microsecond))
	})
}
