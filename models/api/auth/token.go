package authapimodels

type JWTResponse struct {
	Token string  `json:"token"`
	User  Profile `json:"user"`
}
