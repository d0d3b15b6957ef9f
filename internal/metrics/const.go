package metrics

const Namespace = "oauth_relay"

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

const (
	ProviderOperationExchange  = "exchange"
	ProviderOperationProfile   = "profile"
	ProviderOperationResources = "resources"
)

const (
	StoreOperationPut = "put"
	StoreOperationGet = "get"
	StoreOperationLen = "len"
)

const (
	StoreTypeMemory   = "memory"
	StoreTypeRedis    = "redis"
	StoreTypePostgres = "postgres"
)
