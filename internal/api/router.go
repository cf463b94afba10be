package api

import (
	"log"
	"net/http"
	"strings"
)

func NewRouter(handlers *Handlers) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/meetups", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			handlers.ListMeetups(w, r)
		case http.MethodPost:
			handlers.RegisterMeetup(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	mux.HandleFunc("/meetups/", func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		switch {
		case strings.HasSuffix(path, "/subscriptions") && r.Method == http.MethodPost:
			handlers.SubscribeUser(w, r)
		case strings.Contains(path, "/subscriptions/") && r.Method == http.MethodDelete:
			handlers.CancelSubscription(w, r)
		case strings.HasSuffix(path, "/capacity") && r.Method == http.MethodPut:
			handlers.IncreaseCapacity(w, r)
		case r.Method == http.MethodGet:
			handlers.GetMeetupStatus(w, r)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	})

	return withLogging(mux)
}

func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[API] %s %s", r.Method, r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
