package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accountd/accountd/internal/api/http/handler"
	"github.com/accountd/accountd/internal/api/http/middleware"
	"github.com/accountd/accountd/internal/logger"
	"github.com/accountd/accountd/internal/model"
)

// Router assembles the HTTP surface: handlers plus the logging and
// authentication middleware chain.
type Router struct {
	userService    handler.UserService
	tokens         middleware.TokenParser
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates a new Router instance.
func New(
	userService handler.UserService,
	tokens middleware.TokenParser,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		userService:    userService,
		tokens:         tokens,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register builds the route tree. Registration, login and profile-image
// download are public; everything else requires a bearer token.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.contextManager, r.logger)
	users := handler.NewUser(r.userService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(logging.Handle)

	mux.Route("/users", func(mux chi.Router) {
		mux.Post("/", users.Register)
		mux.Post("/login", users.Login)
		mux.Get("/profile-image/{filename}", users.DownloadProfileImage)

		mux.Group(func(mux chi.Router) {
			mux.Use(authenticate.Handle)
			mux.Get("/", users.List)
			mux.Get("/{id}", users.GetByID)
			mux.Put("/{id}", users.UpdateProfile)
			mux.Put("/{id}/role", users.ChangeRole)
			mux.Delete("/{id}", users.Delete)
			mux.Post("/upload", users.UploadProfileImage)
		})
	})

	return mux
}
