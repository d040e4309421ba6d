package main

import (
	"fmt"
	"os"

	"github.com/envhub/envhub/internal/envhub"
	"github.com/envhub/envhub/internal/launcher"
	"github.com/envhub/envhub/internal/store"
)

func run() int {
	s, err := store.Default()
	if err != nil {
		fmt.Fprintf(os.Stderr, "envhub: %v\n", err)
		return launcher.ExitStateError
	}

	argv := make([]string, len(os.Args))
	argv[0] = argv0
	copy(argv[1:], os.Args[1:])

	return launcher.Run(argv, envhub.CanonicalName, s)
}
