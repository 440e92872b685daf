// Command token mints an operator access token signed with JWT_SECRET_KEY.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cmlabs-hris/resto-settlement-go/internal/config"
	"github.com/cmlabs-hris/resto-settlement-go/internal/domain/auth"
	"github.com/cmlabs-hris/resto-settlement-go/internal/pkg/jwt"
)

func main() {
	subject := flag.String("sub", "", "operator id")
	role := flag.String("role", string(auth.RoleOperator), "operator or manager")
	flag.Parse()

	if *subject == "" || !auth.Role(*role).IsValid() {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error loading config:", err)
		os.Exit(1)
	}

	token, expiresAt, err := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration).
		GenerateAccessToken(*subject, auth.Role(*role))
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error generating token:", err)
		os.Exit(1)
	}

	fmt.Println(token)
	fmt.Fprintln(os.Stderr, "expires", time.Unix(expiresAt, 0).UTC().Format(time.RFC3339))
}
