package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// ProofPathPrefix is the path segment under which public proof pages live.
const ProofPathPrefix = "/proof/"
