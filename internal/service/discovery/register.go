package discovery

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/clarkhq/clark-server/internal/app"
)

// Registrar ties the discovery service into the HTTP router
type Registrar struct {
	appCtx *app.AppContext
}

// NewRegistrar creates a new Registrar for the discovery service
func NewRegistrar(appCtx *app.AppContext) *Registrar {
	return &Registrar{appCtx: appCtx}
}

// Register attaches the discovery routes to the router
func (r *Registrar) Register(router *mux.Router) {
	svc := NewService(r.appCtx)

	router.HandleFunc("/profiles", svc.CreateProfile).Methods(http.MethodPost)
	router.HandleFunc("/profiles/{id}", svc.GetProfile).Methods(http.MethodGet)
	router.HandleFunc("/discovery/{viewerId}", svc.Discover).Methods(http.MethodGet)
	router.HandleFunc("/likes", svc.PutLike).Methods(http.MethodPut)
	router.HandleFunc("/matches/{viewerId}", svc.GetMatches).Methods(http.MethodGet)
	router.HandleFunc("/bio", svc.GenerateBio).Methods(http.MethodPost)
	router.HandleFunc("/compatibility", svc.AnalyzeCompatibility).Methods(http.MethodPost)
}
