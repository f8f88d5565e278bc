package common

// AuthorizationHeaderName is the HTTP header carrying access and refresh tokens.
const AuthorizationHeaderName = "Authorization"

// BearerScheme is the only authorization scheme accepted by the API.
const BearerScheme = "Bearer"

// Permission levels stored on the user record.
const (
	PermissionLevelUser  = "USER"
	PermissionLevelAdmin = "ADMIN"
)
