package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"jget.app/jget/security"
)

func main() {
	name := flag.String("name", "admin", "unique name claim")
	id := flag.Int("id", 1, "identity id claim")
	email := flag.String("email", "", "email claim")
	ttl := flag.Int64("ttl", 3600, "token lifetime in seconds")
	flag.Parse()

	secret := os.Getenv("JGET_SIGNING_SECRET")
	if secret == "" {
		log.Fatal("JGET_SIGNING_SECRET is required")
	}

	token, err := security.CreateIdentityToken(&security.DeskIdentity{
		Id:       *id,
		UserName: *name,
		Email:    *email,
		Provider: "cli",
	}, secret, *ttl)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}
