package main

import (
	"blog-content-service/internal/middlewares"
	"flag"
	"log/slog"
	"os"
	"strings"
	"time"
)

// issues an admin token for operators, e.g. to call Create/Update/Delete with grpcurl
func main() {
	username := flag.String("user", "admin", "subject of the token")
	roles := flag.String("roles", middlewares.RoleAdmin, "comma separated roles")
	lifetime := flag.Duration("lifetime", middlewares.TokenLifetime, "validity of the token")
	flag.Parse()

	if key := os.Getenv("BLOG_SIGNING_KEY"); key != "" {
		middlewares.SigningKey = key
	}
	middlewares.TokenLifetime = *lifetime

	token, expiresAt, err := middlewares.GenerateToken([]byte(middlewares.SigningKey), *username, strings.Split(*roles, ","))
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}

	slog.Info("token issued", "user", *username, "expiresAt", expiresAt.Format(time.RFC3339))
	os.Stdout.WriteString(token + "\n")
}
