package server

import (
	"net/http"

	"github.com/ternarybob/refero/internal/handlers"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - Templates
	mux.HandleFunc("/api/templates", s.handleTemplatesRoute)  // GET (list), POST (create)
	mux.HandleFunc("/api/templates/", s.handleTemplateRoutes) // GET/PUT/DELETE /{id}, POST /{id}/duplicate, GET /{id}/preview

	// API routes - Reports
	mux.HandleFunc("/api/reports", s.handleReportsRoute)  // GET (list), POST (submit)
	mux.HandleFunc("/api/reports/", s.handleReportRoutes) // GET /{id}, GET /{id}/view

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}

// handleTemplatesRoute routes /api/templates requests (list and create)
func (s *Server) handleTemplatesRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.app.TemplateHandler.ListHandler(w, r)
	case http.MethodPost:
		s.app.TemplateHandler.CreateHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleTemplateRoutes routes /api/templates/{id} requests and subpaths
func (s *Server) handleTemplateRoutes(w http.ResponseWriter, r *http.Request) {
	id, action := handlers.SubRoute(r.URL.Path, "/api/templates/")
	if id == "" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}

	switch action {
	case "duplicate":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.app.TemplateHandler.DuplicateHandler(w, r, id)
	case "preview":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		s.app.TemplateHandler.PreviewHandler(w, r, id)
	case "":
		switch r.Method {
		case http.MethodGet:
			s.app.TemplateHandler.GetHandler(w, r, id)
		case http.MethodPut:
			s.app.TemplateHandler.UpdateHandler(w, r, id)
		case http.MethodDelete:
			s.app.TemplateHandler.DeleteHandler(w, r, id)
		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

// handleReportsRoute routes /api/reports requests (list and submit)
func (s *Server) handleReportsRoute(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.app.ReportHandler.ListHandler(w, r)
	case http.MethodPost:
		s.app.ReportHandler.SubmitHandler(w, r)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// handleReportRoutes routes /api/reports/{id} requests and subpaths
func (s *Server) handleReportRoutes(w http.ResponseWriter, r *http.Request) {
	id, action := handlers.SubRoute(r.URL.Path, "/api/reports/")
	if id == "" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	switch action {
	case "view":
		s.app.ReportHandler.ViewHandler(w, r, id)
	case "":
		s.app.ReportHandler.GetHandler(w, r, id)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
