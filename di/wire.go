//go:build wireinject
// +build wireinject

package di

import (
	"purohit/config"
	"purohit/infras/jwt"
	"purohit/infras/oauth"
	"purohit/infras/otel"
	"purohit/infras/postgres"
	"purohit/infras/pubsub"
	"purohit/infras/redis"
	"purohit/infras/resend"
	"purohit/infras/telegram"
	"purohit/permissions"
	"purohit/shared/cache"
	"purohit/transport/http"
	"purohit/transport/http/middleware"
	"purohit/transport/http/router"
	"purohit/transport/http/ws"

	"github.com/google/wire"

	accessService "purohit/internal/domains/access/service"
	bookingRepository "purohit/internal/domains/booking/repository"
	bookingService "purohit/internal/domains/booking/service"
	bookingView "purohit/internal/domains/booking/view"
	contactService "purohit/internal/domains/contact/service"
	identityRepository "purohit/internal/domains/identity/repository"
	identityService "purohit/internal/domains/identity/service"
	notificationService "purohit/internal/domains/notification/service"
	sessionService "purohit/internal/domains/session/service"
	userRepository "purohit/internal/domains/user/repository"
	userService "purohit/internal/domains/user/service"
	authHandler "purohit/internal/handlers/auth"
	bookingHandler "purohit/internal/handlers/booking"
	contactHandler "purohit/internal/handlers/contact"
	navigationHandler "purohit/internal/handlers/navigation"
	userHandler "purohit/internal/handlers/user"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	pubsub.NewRedisBus,
	telegram.New,
	resend.New,
	oauth.NewGoogle,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthMiddleware,
	ws.NewUpgrader,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var identityDomain = wire.NewSet(
	identityRepository.New,
	identityService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var sessionDomain = wire.NewSet(
	sessionService.New,
	accessService.New,
)

var bookingDomain = wire.NewSet(
	notificationService.New,
	bookingRepository.New,
	bookingService.New,
	bookingView.New,
)

var contactDomain = wire.NewSet(
	contactService.New,
)

var domains = wire.NewSet(
	identityDomain,
	userDomain,
	sessionDomain,
	bookingDomain,
	contactDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	authHandler.New,
	userHandler.New,
	bookingHandler.New,
	navigationHandler.New,
	contactHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}

// InitializeIdentity builds the identity provider for the admin CLI.
func InitializeIdentity() identityService.Provider {
	wire.Build(
		configurations,
		postgres.New,
		otel.New,
		redis.New,
		jwt.New,
		pubsub.NewRedisBus,
		oauth.NewGoogle,
		sharedHelpers,
		identityDomain,
	)

	return nil
}
