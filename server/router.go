// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// NewRouter serves the welcome page on "/" and files under StaticRoot on
// "/static/". Unknown GET paths get 404, every other method 405.
func NewRouter(conf *Config) *httprouter.Router {
	router := httprouter.New()
	router.GET("/", welcome(conf.ServerName))
	router.ServeFiles("/static/*filepath", http.Dir(conf.StaticRoot))

	router.HandleMethodNotAllowed = true
	router.MethodNotAllowed = http.HandlerFunc(methodNotAllowed)
	router.NotFound = http.HandlerFunc(notFound)
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		writeError(w, http.StatusInternalServerError)
	}
	return router
}

func welcome(serverName string) httprouter.Handle {
	body := []byte("<h1>Welcome to " + serverName + "!</h1>")
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.Header().Set(contentTypeHeader, "text/html")
		w.Write(body)
	}
}

func notFound(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, r)
		return
	}
	writeError(w, http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed)
}
