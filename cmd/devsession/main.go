// devsession mints a session cookie for local testing of the gateway.
// Run: go run ./cmd/devsession -email dev@test.local
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/ErlanBelekov/content-gateway/internal/domain"
	"github.com/ErlanBelekov/content-gateway/internal/usecase"
	"github.com/google/uuid"
)

func main() {
	email := flag.String("email", "dev@test.local", "session user email")
	name := flag.String("name", "Local Dev", "session user display name")
	ttl := flag.Duration("ttl", 24*time.Hour, "session lifetime")
	flag.Parse()

	secret := os.Getenv("SESSION_SECRET")
	if len(secret) < 32 {
		log.Fatal("SESSION_SECRET must be set and at least 32 characters")
	}

	user := domain.SessionUser{ID: uuid.NewString(), Email: *email, Name: *name}
	token, err := usecase.NewSessionUsecase([]byte(secret)).Sign(user, *ttl)
	if err != nil {
		log.Fatalf("sign session: %v", err)
	}
	cookie := usecase.SessionCookieNames[0]

	fmt.Println("Session minted")
	fmt.Println()
	fmt.Printf("  User ID: %s\n", user.ID)
	fmt.Printf("  Email:   %s\n", user.Email)
	fmt.Printf("  Expires: %s\n", time.Now().Add(*ttl).Format(time.RFC3339))
	fmt.Println()
	fmt.Println("Try it:")
	fmt.Println()
	fmt.Printf("  export SESSION='%s=%s'\n", cookie, token)
	fmt.Println()
	fmt.Println("  # signed in: / redirects to /dashboard")
	fmt.Println("  curl -si http://localhost:8080/ -H \"Cookie: $SESSION\" | head -5")
	fmt.Println()
	fmt.Println("  # decoded session")
	fmt.Println("  curl -s http://localhost:8080/api/auth/session -H \"Cookie: $SESSION\"")
	fmt.Println()
	fmt.Println("  # signed out: /settings/x redirects to /login?callbackUrl=/settings/x")
	fmt.Println("  curl -si http://localhost:8080/settings/x | head -5")
}
