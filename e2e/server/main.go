package main

import (
	"fmt"
	"net/http"
	"os"

	"imagesync/e2e/prismd"
)

func main() {
	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":9440"
	}

	server := prismd.New(prismd.Options{
		Clusters: []string{"cluster-01"},
		VMs:      map[string][]string{"build-vm": {"6d2a1f0e-0000-0000-0000-000000000001"}},
	})

	fmt.Printf("fake prism central listening on %s\n", addr)
	if err := http.ListenAndServe(addr, server); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
