// Command mint_token signs a development token with the configured JWT
// secret, for exercising the API without the identity provider.
package main

import (
	"flag"
	"fmt"

	"cfb-pickem-go/config"
	"cfb-pickem-go/logging"
	"cfb-pickem-go/services"
)

func main() {
	subject := flag.String("sub", "dev-user", "subject (stable user id)")
	email := flag.String("email", "dev@example.com", "email claim")
	name := flag.String("name", "Dev User", "display name claim")
	admin := flag.Bool("admin", false, "grant admin")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Failed to load configuration: %v", err)
	}
	if !cfg.App.IsDevelopment {
		logging.Fatal("mint_token only runs with ENVIRONMENT=development")
	}

	auth := services.NewAuthService(nil, cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, "")
	token, err := auth.GenerateToken(*subject, *email, *name, *admin)
	if err != nil {
		logging.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}
