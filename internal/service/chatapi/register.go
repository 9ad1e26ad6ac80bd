package chatapi

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clarkhq/clark-server/internal/app"
)

// Registrar ties the chat service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the chat service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the chat routes to the router
func (r *Registrar) Register(router *mux.Router) {
	svc := NewService(r.appCtx)

	router.HandleFunc("/conversations/{pairKey}", svc.GetConversation).Methods(http.MethodGet)
	router.HandleFunc("/conversations/{pairKey}/messages", svc.SendMessage).Methods(http.MethodPost)
	router.HandleFunc("/activity/{viewerId}", svc.GetActivity).Methods(http.MethodGet)
	router.HandleFunc("/icebreaker", svc.GenerateIcebreaker).Methods(http.MethodPost)
}
