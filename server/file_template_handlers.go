package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/jrsteele09/go-storefront/storefront"
	"github.com/rs/zerolog/log"
)

//go:embed templates/*
var templateFiles embed.FS

const layoutTemplate = "layout.html"

var templateFuncs = template.FuncMap{
	"price": func(p float64) string { return fmt.Sprintf("%.2f", p) },
	"join":  storefront.JoinList,
	"editURL":     func(id string) string { return storeRoute(RouteStoreEdit, id) },
	"deleteURL":   func(id string) string { return storeRoute(RouteStoreDelete, id) },
	"productsURL": func(id string) string { return storeRoute(RouteStoreProducts, id) },
	"shopURL":     shopURL,
}

func TemplateFilesFS() fs.FS {
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page from the embedded filesystem together with the shared layout
func ParseTemplate(name string) (*template.Template, error) {
	return template.New(layoutTemplate).Funcs(templateFuncs).ParseFS(TemplateFilesFS(), layoutTemplate, name)
}

func mustParseTemplate(name string) *template.Template {
	tmpl, err := ParseTemplate(name)
	if err != nil {
		panic("Failed to parse " + name + " template: " + err.Error())
	}
	return tmpl
}

// StoreForm holds the store form fields as typed by the owner
type StoreForm struct {
	Name           string
	Email          string
	Categories     string
	PaymentMethods string
}

func storeFormFrom(store storefront.Store) StoreForm {
	return StoreForm{
		Name:           store.Name,
		Email:          store.Email,
		Categories:     storefront.JoinList(store.Categories),
		PaymentMethods: storefront.JoinList(store.PaymentMethods),
	}
}

func (f StoreForm) input() storefront.StoreInput {
	return storefront.StoreInput{
		Name:           f.Name,
		Email:          f.Email,
		Categories:     storefront.SplitList(f.Categories),
		PaymentMethods: storefront.SplitList(f.PaymentMethods),
	}
}

// PageData is the model every page template receives
type PageData struct {
	AppName  string
	Title    string
	Session  *sessions.Session
	Error    string
	Email    string
	Owner    *storefront.Owner
	Store    *storefront.Store
	Form     StoreForm
	Shops    []storefront.Shop
	Products []storefront.Product
}

// page builds the common part of PageData for r
func (s *Server) page(r *http.Request, title string) PageData {
	data := PageData{
		AppName: s.config.GetAppName(),
		Title:   title,
		Error:   r.URL.Query().Get("error"),
	}
	if session, ok := currentSession(r); ok {
		data.Session = &session
	}
	return data
}

// render executes tmpl into a buffer so a template error never leaves a half written page
func render(w http.ResponseWriter, tmpl *template.Template, status int, data PageData) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		log.Err(err).Str("template", tmpl.Name()).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
