package auth

type SessionKey string

var (
	SessionKeyLoginState SessionKey = "login_state"
)
