package auth

import "time"

// Claims contains the verified session token details we care about.
type Claims struct {
	Subject   string
	Issuer    string
	Email     string
	ExpiresAt time.Time
	Raw       map[string]any
}
