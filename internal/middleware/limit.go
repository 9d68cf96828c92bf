package middleware

import "net/http"

// LimitBytes ограничивает размер тела запроса (загрузки спецификаций и
// прайс-листов бывают большими, но не безразмерными).
func LimitBytes(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, max)
			next.ServeHTTP(w, r)
		})
	}
}
