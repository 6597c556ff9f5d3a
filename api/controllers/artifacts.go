package controllers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nurulloasawear/order-app/api/responses"
	pkgerrors "github.com/nurulloasawear/order-app/pkg/errors"
	"github.com/nurulloasawear/order-app/pkg/logger"
	"github.com/nurulloasawear/order-app/pkg/manifest"
)

// ArtifactDownload serves a previously rendered manifest.
func ArtifactDownload(store *manifest.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if store == nil {
			err := pkgerrors.New(pkgerrors.CodeInternal, "artifact store unavailable")
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		name := chi.URLParam(r, "name")
		path, err := store.Path(name)
		if err != nil {
			if errors.Is(err, manifest.ErrArtifactNotFound) {
				err = pkgerrors.New(pkgerrors.CodeNotFound, "artifact not found")
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
		http.ServeFile(w, r, path)
	}
}
