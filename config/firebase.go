package config

// ServiceAccount holds the fields of a service-account key needed to sign storage URLs.
type ServiceAccount struct {
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`
}
