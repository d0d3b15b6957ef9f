package middlewares

//go:generate mockgen -source=oauth_provider.go -destination=../mocks/oauth.go -package=mocks

type OAuthProvider interface {
	GenerateState() string
	AuthCodeURL(state string) string
}
