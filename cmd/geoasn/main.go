package main

import "github.com/rdp-studio/dn42-geoasn/log"

func main() {
	if err := mainCommand.Execute(); err != nil {
		log.Fatal(err)
	}
}
