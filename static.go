package main

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// StaticServer serves the browser client: GET only, rooted at one
// directory, with no-cache and permissive CORS headers on every hit.
type StaticServer struct {
	root string
	srv  *http.Server
}

func NewStaticServer(cfg *Config) (*StaticServer, error) {
	root, err := filepath.Abs(cfg.StaticDir)
	if err != nil {
		return nil, fmt.Errorf("resolve static dir: %w", err)
	}

	s := &StaticServer{root: root}
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleFile)

	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s, nil
}

func (s *StaticServer) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

func (s *StaticServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.srv.Shutdown(ctx); err != nil {
		log.Errorf("static server shutdown: %v", err)
	}
}

func (s *StaticServer) handleFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	p := path.Clean(r.URL.Path)
	if p == "/" {
		p = "/index.html"
	}
	target := filepath.Join(s.root, filepath.FromSlash(p))

	// Clean keeps rooted paths inside the root, but a symlink under the
	// root can still point outside it.
	if !contained(target, s.root) {
		http.Error(w, "403 Forbidden", http.StatusForbidden)
		return
	}
	resolved, err := filepath.EvalSymlinks(target)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	rootResolved, err := filepath.EvalSymlinks(s.root)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	if !contained(resolved, rootResolved) {
		http.Error(w, "403 Forbidden", http.StatusForbidden)
		return
	}

	info, err := os.Stat(resolved)
	if err != nil || !info.Mode().IsRegular() {
		http.NotFound(w, r)
		return
	}
	data, err := os.ReadFile(resolved)
	if err != nil {
		http.NotFound(w, r)
		return
	}

	ctype := mime.TypeByExtension(filepath.Ext(target))
	if ctype == "" {
		ctype = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ctype)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	_, _ = w.Write(data)
}

func contained(target, root string) bool {
	return target == root || strings.HasPrefix(target, root+string(os.PathSeparator))
}
