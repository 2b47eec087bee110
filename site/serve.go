package site

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"howett.net/quiescent/lib/four"
	"howett.net/quiescent/lib/rayman"
	"howett.net/quiescent/lib/templite"
)

// NewPreviewHandler serves the built site in outputDir. When notFound is
// set, missing pages are answered with it, rendered with the request path
// bound to "path". Responses are compressed when the client allows it, and
// forwarding headers from a fronting proxy are honoured.
func NewPreviewHandler(outputDir string, notFound *templite.Template, logger logrus.FieldLogger) http.Handler {
	router := mux.NewRouter()
	router.PathPrefix("/").Methods("GET", "HEAD").Handler(http.FileServer(http.Dir(outputDir)))

	var h http.Handler = router
	if notFound != nil {
		h = four.WrapHandler(router, notFoundHandler(notFound))
	}
	return handlers.CompressHandler(handlers.ProxyHeaders(rayman.LoggingHandler(h, logger)))
}

func notFoundHandler(tmpl *templite.Template) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, err := tmpl.Render(templite.Context{"path": r.URL.Path})
		if err != nil {
			rayman.RequestLogger(r).WithError(err).Error("rendering not found page")
			page = "404 page not found\n"
		}
		io.WriteString(w, page)
	})
}

// PreviewHandler serves the generator's output directory, using the
// NotFoundTemplate if the site has one.
func (g *Generator) PreviewHandler() http.Handler {
	notFound, err := g.Template(NotFoundTemplate)
	if err != nil {
		g.logger.WithError(err).Warn("serving plain not found pages")
		notFound = nil
	}
	return NewPreviewHandler(g.cfg.OutputDirectory, notFound, g.logger)
}
