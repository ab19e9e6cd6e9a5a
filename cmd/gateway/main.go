package main

import (
	"go.uber.org/fx"

	"wispgate/apps/gateway"
	"wispgate/cmd/gateway/router"
	"wispgate/internal"
	"wispgate/pkg"
)

func main() {
	fx.New(
		gateway.Module,
		router.Module,
		pkg.Module,
		internal.Module,
	).Run()
}
