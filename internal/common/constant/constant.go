package constant

const (
	HEADER_AUTHORIZATION = "Authorization"
	HEADER_CONTENT_TYPE  = "Content-Type"
	HEADER_DEVICE_ID     = "Device-ID"
	HEADER_UID           = "UID"
	HEADER_USER_ID       = "User-ID"
	HEADER_AUTH_TOKEN    = "auth_token"

	MIME_JSON = "application/json"
)

// Identity strategies. IDENTITY_UID and IDENTITY_USER_ID name the header
// carrying the user on http calls, IDENTITY_UID and IDENTITY_CLIENT_ID the
// key of the websocket identification frame.
const (
	IDENTITY_UID       = "uid"
	IDENTITY_USER_ID   = "user-id"
	IDENTITY_CLIENT_ID = "clientId"
)

const (
	PATH_USERS       = "/users"
	PATH_USER_PLANTS = "/users/%s/plants"
	PATH_PLANTS      = "/plants"
	PATH_WEATHER     = "/weather"
	PATH_DEVICES     = "/devices"
	PATH_SIGNUP      = "/signup"
	PATH_LOGIN       = "/login"
	PATH_REFRESH     = "/refresh"
)

const (
	OP_CREATE_USER       = "create_user"
	OP_CREATE_PLANT      = "create_plant"
	OP_CREATE_PLANT_DATA = "create_plant_data"
	OP_GET_PLANTS        = "get_plants"
	OP_CREATE_DEVICE     = "create_device"
	OP_SIGNUP            = "signup"
	OP_LOGIN             = "login"
	OP_REFRESH           = "refresh"
)
