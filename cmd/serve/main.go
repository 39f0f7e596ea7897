// Command serve serves the unpacked extension and a demo page with media
// elements for development.
package main

import (
	_ "embed"
	"flag"
	"log"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

//go:embed demo.html
var demoPage []byte

func main() {
	addr := flag.String("addr", ":8080", "listen address")
	dir := flag.String("dir", "extension", "unpacked extension directory")
	flag.Parse()

	log.Print("Serving " + *dir + " on http://localhost" + *addr)
	log.Println(http.ListenAndServe(*addr, newRouter(*dir)))
}

func newRouter(dir string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(noCache)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(demoPage)
	})
	r.Handle("/extension/*", http.StripPrefix("/extension/", http.FileServer(http.Dir(dir))))

	return r
}

func noCache(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Add("Cache-Control", "no-cache")
		if strings.HasSuffix(req.URL.Path, ".wasm") {
			w.Header().Set("Content-Type", "application/wasm")
		}
		next.ServeHTTP(w, req)
	})
}
